package platform

// AppName identifies the sender in notification centers that show one.
const AppName = "RegionShot"

// Options configures how a notification is displayed on the host platform.
type Options struct {
	// IconPath, when non-empty, points to an image file the notification center
	// should display with the notification if supported by the platform.
	IconPath string
	// Urgent asks the notification center to keep the message visible.
	Urgent bool
}

func timeoutMillis(opts Options) int32 {
	if opts.Urgent {
		return 0
	}
	return 5000
}
