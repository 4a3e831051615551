package merchant

import (
	"errors"
	"fmt"
	"time"

	restate "github.com/restatedev/sdk-go"

	"github.com/AnthonyGillesRudolfo/Storefront-Order-Simulator/internal/catalog"
)

// ObjectName is the Restate virtual object holding one workspace per store
// slug.
const ObjectName = "simulator.sv1.MerchantWorkspace"

const stateKey = "workspace"

// Object exposes workspace editing as durable, per-store handlers.
type Object struct {
	src catalog.Source
}

func NewObject(src catalog.Source) *Object {
	return &Object{src: src}
}

// load returns the stored workspace or starts a fresh one for the keyed store.
func (o *Object) load(ctx restate.ObjectSharedContext) (Workspace, error) {
	slug := restate.Key(ctx)
	ws, err := restate.Get[*Workspace](ctx, stateKey)
	if err != nil {
		return Workspace{}, err
	}
	if ws != nil {
		return *ws, nil
	}

	store, err := o.src.Lookup(ctx, slug)
	if errors.Is(err, catalog.ErrStoreNotFound) {
		return Workspace{}, restate.TerminalError(fmt.Errorf("store %q not found", slug), 404)
	}
	if err != nil {
		return Workspace{}, fmt.Errorf("lookup store %s: %w", slug, err)
	}
	return NewWorkspace(store), nil
}

// GetWorkspace is a shared (read-only) handler.
func (o *Object) GetWorkspace(ctx restate.ObjectSharedContext, _ restate.Void) (Workspace, error) {
	return o.load(ctx)
}

func (o *Object) UpdateProfile(ctx restate.ObjectContext, u ProfileUpdate) (Workspace, error) {
	ws, err := o.load(ctx)
	if err != nil {
		return Workspace{}, err
	}
	ws.ApplyProfile(u)
	restate.Set(ctx, stateKey, ws)
	return ws, nil
}

func (o *Object) UpdateWebhook(ctx restate.ObjectContext, u WebhookUpdate) (Workspace, error) {
	ws, err := o.load(ctx)
	if err != nil {
		return Workspace{}, err
	}
	if err := ws.ApplyWebhook(u); err != nil {
		return Workspace{}, restate.TerminalError(err, 400)
	}
	restate.Set(ctx, stateKey, ws)
	return ws, nil
}

func (o *Object) UpdateSettlement(ctx restate.ObjectContext, u SettlementUpdate) (Workspace, error) {
	ws, err := o.load(ctx)
	if err != nil {
		return Workspace{}, err
	}
	ws.ApplySettlement(u)
	restate.Set(ctx, stateKey, ws)
	return ws, nil
}

func (o *Object) AddProduct(ctx restate.ObjectContext, d ProductDraft) (Workspace, error) {
	ws, err := o.load(ctx)
	if err != nil {
		return Workspace{}, err
	}

	id, err := restate.Run(ctx, func(restate.RunContext) (string, error) {
		return fmt.Sprintf("draft-%d", time.Now().UnixMilli()), nil
	})
	if err != nil {
		return Workspace{}, err
	}
	if _, err := ws.AddProduct(id, d); err != nil {
		return Workspace{}, restate.TerminalError(err, 400)
	}
	restate.Set(ctx, stateKey, ws)
	return ws, nil
}

func (o *Object) Publish(ctx restate.ObjectContext, _ restate.Void) (Workspace, error) {
	ws, err := o.load(ctx)
	if err != nil {
		return Workspace{}, err
	}

	stamp, err := restate.Run(ctx, func(restate.RunContext) (string, error) {
		return time.Now().Format(time.RFC3339), nil
	})
	if err != nil {
		return Workspace{}, err
	}
	ws.LastPublish = stamp
	restate.Set(ctx, stateKey, ws)
	return ws, nil
}
