package domain

// Notification types.
const (
	NotificationTypeSwap    = "swap"
	NotificationTypeSession = "session"
	NotificationTypeMessage = "message"
	NotificationTypeSystem  = "system"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Delivery channels.
const (
	ChannelInApp = "inApp"
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelPush  = "push"
)

// Swap statuses.
const (
	SwapStatusPending   = "pending"
	SwapStatusAccepted  = "accepted"
	SwapStatusRejected  = "rejected"
	SwapStatusCompleted = "completed"
)

// Session statuses.
const (
	SessionStatusPending   = "pending"
	SessionStatusConfirmed = "confirmed"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// Session modes.
const (
	SessionModeOnline  = "online"
	SessionModeOffline = "offline"
)
