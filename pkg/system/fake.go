package system

import "context"

// FakeRunner records calls instead of executing commands. Tests use it
// to assert on desktop integration side effects.
type FakeRunner struct {
	DesktopDirs  []string
	MimeDefaults map[string]string
	EditedPaths  []string

	// EditFunc, when set, runs in place of the editor
	EditFunc func(path string) error
	// Err, when set, is returned by every call
	Err error
}

// NewFakeRunner returns an empty recording runner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{MimeDefaults: map[string]string{}}
}

func (f *FakeRunner) UpdateDesktopDatabase(_ context.Context, dir string) error {
	if f.Err != nil {
		return f.Err
	}
	f.DesktopDirs = append(f.DesktopDirs, dir)
	return nil
}

func (f *FakeRunner) XdgMimeDefault(_ context.Context, desktopFile, mimeType string) error {
	if f.Err != nil {
		return f.Err
	}
	f.MimeDefaults[mimeType] = desktopFile
	return nil
}

func (f *FakeRunner) XdgMimeQuery(_ context.Context, mimeType string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.MimeDefaults[mimeType], nil
}

func (f *FakeRunner) OpenEditor(_ context.Context, path string) error {
	if f.Err != nil {
		return f.Err
	}
	f.EditedPaths = append(f.EditedPaths, path)
	if f.EditFunc != nil {
		return f.EditFunc(path)
	}
	return nil
}
