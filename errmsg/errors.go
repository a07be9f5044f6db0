package errmsg

const (
	NodeStartFailed       = "%w | address %s | reason %v"
	NodeStartNullHandle   = "%w | address %s | library returned a null handle"
	NodeHandleNotReleased = "%w | handle %#x"
)
