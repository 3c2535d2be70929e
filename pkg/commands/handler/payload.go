package handler

import (
	"context"
	"net/url"
	"os/exec"
	"strings"

	"github.com/pwa-forge/pwa-forge/pkg/browser"
	"github.com/pwa-forge/pwa-forge/pkg/commands/runtime"
	"github.com/pwa-forge/pwa-forge/pkg/errors"
	"github.com/pwa-forge/pwa-forge/pkg/logging"
)

// DecodePayload turns a scheme-prefixed, percent-encoded payload back
// into the original URL. Only http and https results are accepted;
// anything else is rejected before a browser ever sees it.
func DecodePayload(scheme, raw string) (string, error) {
	if raw == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty handler payload")
	}
	payload := strings.TrimPrefix(raw, scheme+":")
	payload = strings.TrimPrefix(payload, "//")
	if payload == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty handler payload")
	}

	// Pure percent-decoding, matching the installed bash handler:
	// a literal + in the payload stays a +.
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "malformed percent-encoding in %q", raw)
	}
	if !strings.HasPrefix(decoded, "http://") && !strings.HasPrefix(decoded, "https://") {
		return "", errors.Newf(errors.ErrInvalidInput, "refusing non-http(s) URL %q", decoded)
	}
	u, err := url.Parse(decoded)
	if err != nil || u.Host == "" {
		return "", errors.Newf(errors.ErrInvalidInput, "decoded payload %q is not a valid URL", decoded)
	}
	return decoded, nil
}

// OpenOptions holds options for opening a handler payload directly
type OpenOptions struct {
	Scheme string
	Raw    string
	// Browser overrides the handler's registered browser
	Browser string
}

// Open decodes a payload the way the installed handler script would
// and opens the result in a new browser window. It exists for
// debugging handlers without going through the desktop environment.
func Open(ctx context.Context, rt *runtime.Runtime, opts OpenOptions) (string, error) {
	logger := logging.GetLogger("commands.handler")

	decoded, err := DecodePayload(opts.Scheme, opts.Raw)
	if err != nil {
		return "", err
	}

	browserName := opts.Browser
	if browserName == "" {
		state, err := rt.Registry.Read()
		if err != nil {
			return "", err
		}
		if entry := state.FindHandler(opts.Scheme); entry != nil {
			browserName = entry.Browser
		} else {
			browserName = rt.Config.DefaultBrowser
		}
	}
	browserExec, err := browser.Resolve(browserName, rt.Config)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, browserExec, "--new-window", decoded)
	if err := cmd.Start(); err != nil {
		return "", errors.Wrapf(err, errors.ErrInternal, "cannot launch %s", browserExec)
	}
	logger.Info().Str("url", decoded).Str("browser", browserName).Msg("opened rewritten link")
	return decoded, nil
}
