package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoowhoami/gospring/framework/event"
)

// The descriptor lists are process-global and append-only, so these tests
// use names no other test registers and fresh contexts per scan.

func TestSubmittedComponentsApplyToEveryScannedContext(t *testing.T) {
	SubmitComponent("scanWidget", func(ctx *ApplicationContext) error {
		return ctx.Register(widgetDef("scanWidget"))
	})

	for i := 0; i < 2; i++ {
		ctx := New()
		require.NoError(t, ctx.ScanComponents())
		assert.True(t, ctx.ContainsBean("scanWidget"))
	}
}

func TestScanOrderPropertiesBeforeComponents(t *testing.T) {
	SubmitConfigurationProperties("scanProps", func(ctx *ApplicationContext) error {
		return ctx.Register(NewDefinition[*gadget]("scanProps",
			func(*Resolver) (*gadget, error) { return &gadget{id: 9}, nil }))
	})
	SubmitComponent("scanConsumer", func(ctx *ApplicationContext) error {
		return ctx.Register(NewDefinition[*widget]("scanConsumer",
			func(r *Resolver) (*widget, error) {
				g, err := ResolveBean[*gadget](r, "scanProps")
				if err != nil {
					return nil, err
				}
				return &widget{id: g.id}, nil
			}).WithDependsOn("scanProps"))
	})

	ctx := New()
	require.NoError(t, ctx.ScanConfigurationProperties())
	require.NoError(t, ctx.ScanComponents())

	w, err := ResolveNamed[*widget](ctx, "scanConsumer")
	require.NoError(t, err)
	assert.Equal(t, 9, w.id)
}

func TestSubmittedListenersAndProcessors(t *testing.T) {
	SubmitEventListener("scanListener", func(*ApplicationContext) (event.Listener, error) {
		return event.NewListener("scanListener", func(event.Event) {}), nil
	})

	var processed []string
	SubmitBeanPostProcessor("scanProcessor", func(*ApplicationContext) (BeanPostProcessor, error) {
		return &recordingProcessor{name: "scanProcessor", order: 1, log: &processed}, nil
	})

	ctx := New()
	require.NoError(t, ctx.Register(widgetDef("scanTarget")))
	require.NoError(t, ctx.ScanEventListeners())
	require.NoError(t, ctx.ScanBeanPostProcessors())

	before := ctx.EventBus().ListenerCount()
	assert.GreaterOrEqual(t, before, 1)

	_, err := ctx.GetBean("scanTarget")
	require.NoError(t, err)
	assert.Contains(t, processed, "scanProcessor:before:scanTarget")
}

func TestSubmittedSmartInitRunsDuringRefresh(t *testing.T) {
	calls := 0
	SubmitSmartInitializingSingleton("scanSmart", func(*ApplicationContext) (SmartInitializingSingleton, error) {
		return countingSmartInit{calls: &calls}, nil
	})

	ctx := New()
	require.NoError(t, ctx.ScanSmartInitializingSingletons())
	require.NoError(t, ctx.Refresh())
	assert.Equal(t, 1, calls)
}
