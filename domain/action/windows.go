package action

// DesktopWindows queries top-level windows of the running desktop session.
type DesktopWindows struct{}

func (DesktopWindows) ListWindows() ([]string, error) { return ListWindows() }

func (DesktopWindows) ForegroundWindowTitle() (string, error) { return ForegroundWindowTitle() }
