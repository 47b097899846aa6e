// Package oracle talks to the external decision service. The service is
// text-in/text-out and untrusted: nothing about its replies is assumed
// here, validation happens in the protocol layer.
package oracle

import "context"

// Oracle completes a prompt into free-form response text.
type Oracle interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Oracle interface. Tests use this
// to script oracle behavior.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
