package relog

import "testing"

func TestRouterBaseDefaults(t *testing.T) {
	r := newRouter()
	res := r.resolve("anything", Info)
	if res.level != Debug {
		t.Fatalf("expected base default level Debug, got %s", res.level)
	}
	if !res.console {
		t.Fatalf("expected console enabled by default")
	}
}

func TestRouterLevelOverrideBeatsBase(t *testing.T) {
	r := newRouter()
	errLevel := Error
	r.setLevelOption(Warn, LogOption{Level: &errLevel})

	if th := r.threshold("mod", Warn); th != Error {
		t.Fatalf("expected level override to raise threshold to Error, got %s", th)
	}
	if th := r.threshold("mod", Info); th != Debug {
		t.Fatalf("level override for Warn should not affect Info's threshold, got %s", th)
	}
}

func TestRouterModuleOverrideBeatsLevelAndBase(t *testing.T) {
	r := newRouter()
	warnLevel := Warn
	r.setLevelOption(Info, LogOption{Level: &warnLevel})

	offLevel := Off
	r.setModuleOption("quiet", LogOption{Level: &offLevel})

	if th := r.threshold("quiet", Info); th != Off {
		t.Fatalf("module override should win over level override, got %s", th)
	}
	if th := r.threshold("loud", Info); th != Warn {
		t.Fatalf("unrelated module should still see the level override, got %s", th)
	}
}

func TestRouterFieldLevelOverlay(t *testing.T) {
	debugLevel := Debug
	f1 := LevelFlag
	base := logOptionConst{level: &debugLevel, format: &f1}

	errLevel := Error
	top := logOptionConst{level: &errLevel}

	merged := overlay(base, top)
	if merged.level == nil || *merged.level != Error {
		t.Fatalf("expected overlay to replace level")
	}
	if merged.format != &f1 {
		t.Fatalf("expected overlay to leave an unset field untouched")
	}
}

func TestRouterSecondarySinkRouting(t *testing.T) {
	r := newRouter()
	primary := &sink{console: true}
	secondary := &sink{console: true}
	r.setPrimarySink("primary.log", primary)
	r.setSecondarySink("secondary.log", secondary)

	r.setModuleOption("audit", LogOption{FileOption: &FileOption{Filename: "secondary.log"}})

	res := r.resolve("audit", Info)
	if res.target != secondary {
		t.Fatalf("expected audit module to route to the secondary sink")
	}

	res = r.resolve("other", Info)
	if res.target != primary {
		t.Fatalf("expected unrelated module to keep routing to the primary sink")
	}
}
