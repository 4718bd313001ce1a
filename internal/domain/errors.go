package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy for a frame exchange. Protocol and transport errors always
// terminate the run; add-on errors degrade the affected add-on only; config
// errors are raised at setup and never mid-run.
var (
	ErrProtocol  = errors.New("protocol error")
	ErrTransport = errors.New("transport error")
	ErrAddOn     = errors.New("add-on error")
	ErrConfig    = errors.New("configuration error")
)

// Hook names used in fault attribution.
const (
	HookInitialize   = "initialize"
	HookBeforeSend   = "before_send"
	HookAfterReceive = "after_receive"
)

// HookFault attributes a failure to one add-on hook invocation.
type HookFault struct {
	AddOn string
	Hook  string
	Err   error
}

func (f *HookFault) Error() string {
	return fmt.Sprintf("add-on error: %s.%s: %v", f.AddOn, f.Hook, f.Err)
}

func (f *HookFault) Unwrap() []error {
	return []error{ErrAddOn, f.Err}
}
