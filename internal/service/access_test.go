package service

import (
	"context"
	"errors"
	"testing"

	"github.com/storycanvas/backend/internal/model"
)

func TestAccessGate_Authorize(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "访问控制")
	ctx := context.Background()

	if _, err := env.gate.Authorize(ctx, "owner-1", sb.ID, CapabilityOwner); err != nil {
		t.Fatalf("owner should pass: %v", err)
	}
	if _, err := env.gate.Authorize(ctx, "owner-1", sb.ID, CapabilityViewer); err != nil {
		t.Fatalf("owner should view: %v", err)
	}

	if _, err := env.gate.Authorize(ctx, "intruder", sb.ID, CapabilityOwner); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := env.gate.Authorize(ctx, "intruder", sb.ID, CapabilityViewer); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for viewer, got %v", err)
	}

	if _, err := env.gate.Authorize(ctx, "owner-1", 99999, CapabilityViewer); !errors.Is(err, ErrStorybookNotFound) {
		t.Fatalf("expected ErrStorybookNotFound, got %v", err)
	}
}

func TestServices_RejectForeignCaller(t *testing.T) {
	env := newTestEnv(t)
	sb := env.mustCreateStorybook(t, "访问控制")
	page := env.mustCreatePage(t, sb.ID)
	frame := env.mustCreateFrame(t, page.ID, model.NodeText)
	ctx := context.Background()

	if _, err := env.pages.Create(ctx, "intruder", CreatePageRequest{StorybookID: sb.ID}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("page create: expected ErrForbidden, got %v", err)
	}
	if _, err := env.frames.ListByPage(ctx, "intruder", page.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("frame list: expected ErrForbidden, got %v", err)
	}
	if err := env.frames.Remove(ctx, "intruder", frame.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("frame remove: expected ErrForbidden, got %v", err)
	}
	if err := env.storybooks.Delete(ctx, "intruder", sb.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("storybook delete: expected ErrForbidden, got %v", err)
	}
}
