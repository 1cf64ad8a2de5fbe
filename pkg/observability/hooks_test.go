package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnBuildStart(ctx, "grid", 120)
	p.OnBuildComplete(ctx, "grid", 4, 1, time.Second, nil)
	p.OnLayoutStart(ctx, "scatter", 4)
	p.OnLayoutComplete(ctx, "scatter", time.Second, nil)
	p.OnRenderStart(ctx, "png")
	p.OnRenderComplete(ctx, "png", time.Second, nil)
	p.OnFrame(ctx, 1, time.Millisecond, nil)

	o := NoopOracleHooks{}
	o.OnLookup(ctx, "perro", 1, time.Millisecond, nil)
	o.OnQuery(ctx, 0.5, true)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "sense")
	c.OnCacheMiss(ctx, "graph")
	c.OnCacheSet(ctx, "scene", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Oracle().(NoopOracleHooks); !ok {
		t.Error("Oracle() should return NoopOracleHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customOracle := &testOracleHooks{}
	SetOracleHooks(customOracle)
	if Oracle() != customOracle {
		t.Error("SetOracleHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// nil leaves the current hooks in place
	SetOracleHooks(nil)
	if Oracle() != customOracle {
		t.Error("SetOracleHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Oracle().(NoopOracleHooks); !ok {
		t.Error("Reset should restore NoopOracleHooks")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testOracleHooks struct{ NoopOracleHooks }
type testCacheHooks struct{ NoopCacheHooks }
