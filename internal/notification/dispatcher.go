package notification

import (
	"context"
	"fmt"
)

// Dispatcher renders notification contents into emails, submits them to an
// EmailSender and informs the administrator once if any could not be sent.
// It holds no state besides its collaborators.
type Dispatcher struct {
	generateEmail  EmailGenerator
	sendOrRemember EmailSender
	informAdmin    FailureNotifier
}

// NewDispatcher creates a Dispatcher from its three collaborators.
func NewDispatcher(generator EmailGenerator, sender EmailSender, notifier FailureNotifier) *Dispatcher {
	return &Dispatcher{
		generateEmail:  generator,
		sendOrRemember: sender,
		informAdmin:    notifier,
	}
}

// Dispatch generates and submits one email per content, in order. When the
// sender reports unsent emails afterwards, the failure notifier is called
// exactly once.
//
// An error from the generator or the sender aborts the batch: earlier
// submissions stand, later contents are not submitted and no failure notice
// is sent. An error from the failure notifier is returned as well.
func (d *Dispatcher) Dispatch(ctx context.Context, contents []Content) error {
	for i, content := range contents {
		email, err := d.generateEmail.Generate(content)
		if err != nil {
			return fmt.Errorf("generating email %d of %d: %w", i+1, len(contents), err)
		}
		if err := d.sendOrRemember.Send(ctx, email); err != nil {
			return fmt.Errorf("submitting email %d of %d: %w", i+1, len(contents), err)
		}
	}

	if !d.unsentMailsExist() {
		return nil
	}
	return d.informAdmin.SendFailure(ctx)
}

func (d *Dispatcher) unsentMailsExist() bool {
	return len(d.sendOrRemember.NotSent()) > 0
}
