package platform

import "time"

// AppName identifies the sender when Options.AppName is empty.
const AppName = "codraw"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	AppName  string
	// Timeout is how long the notification stays visible. Zero uses 5s.
	Timeout time.Duration
}

func (o Options) appName() string {
	if o.AppName == "" {
		return AppName
	}
	return o.AppName
}

func (o Options) timeoutMillis() int32 {
	if o.Timeout <= 0 {
		return 5000
	}
	return int32(o.Timeout / time.Millisecond)
}
