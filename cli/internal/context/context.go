// Package context carries the centrally created state of a depmgr CLI
// invocation through the context.Context of a cobra command.
package context

import (
	"context"
	"sync"

	"github.com/spf13/cobra"

	"depmgr.software/dependency-manager/bindings/go/service"
	"depmgr.software/dependency-manager/bindings/go/settings"
)

type ctxKey string

const key ctxKey = "depmgr.software/dependency-manager/cli/internal/context"

// Context holds the service settings and the service of a CLI invocation.
// It is created once in the pre run hook and shared by all subcommands.
type Context struct {
	mu sync.RWMutex

	// settings are the effective service settings after merging the
	// configuration files and the command line overrides.
	settings settings.Settings

	// service resolves, downloads and cleans up graphs with settings.
	service *service.Service
}

// WithSettings stores s in the Context of ctx, creating the Context if needed.
func WithSettings(ctx context.Context, s settings.Settings) context.Context {
	ctx, cliCtx := retrieveOrCreate(ctx)
	cliCtx.mu.Lock()
	defer cliCtx.mu.Unlock()
	cliCtx.settings = s
	return ctx
}

// WithService stores svc in the Context of ctx, creating the Context if needed.
func WithService(ctx context.Context, svc *service.Service) context.Context {
	ctx, cliCtx := retrieveOrCreate(ctx)
	cliCtx.mu.Lock()
	defer cliCtx.mu.Unlock()
	cliCtx.service = svc
	return ctx
}

// Register makes sure the context of cmd carries a Context.
func Register(cmd *cobra.Command) {
	ctx, _ := retrieveOrCreate(cmd.Context())
	cmd.SetContext(ctx)
}

func (ctx *Context) Settings() settings.Settings {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.settings
}

func (ctx *Context) Service() *service.Service {
	if ctx == nil {
		return nil
	}
	ctx.mu.RLock()
	defer ctx.mu.RUnlock()
	return ctx.service
}

// FromContext returns the Context stored in ctx or nil.
func FromContext(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(key).(*Context); ok {
		return v
	}
	return nil
}

// WithContext stores c in ctx.
func WithContext(ctx context.Context, c *Context) context.Context {
	return context.WithValue(ctx, key, c)
}

func retrieveOrCreate(ctx context.Context) (context.Context, *Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	cliCtx := FromContext(ctx)
	if cliCtx == nil {
		cliCtx = &Context{}
		ctx = WithContext(ctx, cliCtx)
	}
	return ctx, cliCtx
}
