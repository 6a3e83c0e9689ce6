package main

import (
	"context"
	"testing"
)

func TestNotifyContext_ParentCancel(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithCancel(context.Background())
	ctx, stop := notifyContext(parent)
	defer stop()

	cancel()
	<-ctx.Done()
	if ctx.Err() == nil {
		t.Error("ctx.Err() = nil after parent cancel")
	}
}
