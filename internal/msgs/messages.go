package msgs

const (
	MsgOperationSuccessful = "operation successful"
	MsgOperationFailed     = "operation failed"
	MsgYouMustLoginFirst   = "you must login first"
	MsgServiceScopeNeeded  = "service token required"
	MsgEventBroadcasted    = "event broadcasted"
	MsgFrameDelivered      = "frame delivered"
)
