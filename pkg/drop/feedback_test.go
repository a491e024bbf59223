package drop

import "testing"

func TestProject(t *testing.T) {
	anchor := Rect{Left: 10, Top: 20, Width: 100, Height: 40}

	tests := []struct {
		name     string
		desc     Descriptor
		wantKind OverlayKind
		wantRect Rect
	}{
		{
			name:     "BeforeLineAtTopEdge",
			desc:     Descriptor{Position: Before, TargetID: "n", Bounds: anchor},
			wantKind: OverlayLine,
			wantRect: Rect{Left: 10, Top: 20, Width: 100},
		},
		{
			name:     "AfterLineAtBottomEdge",
			desc:     Descriptor{Position: After, TargetID: "n", Bounds: anchor},
			wantKind: OverlayLine,
			wantRect: Rect{Left: 10, Top: 60, Width: 100},
		},
		{
			name:     "BetweenKeepsGapLine",
			desc:     Descriptor{Position: Between, TargetID: "n", Bounds: Rect{Left: 10, Top: 50, Width: 100}},
			wantKind: OverlayLine,
			wantRect: Rect{Left: 10, Top: 50, Width: 100},
		},
		{
			name:     "InsideBox",
			desc:     Descriptor{Position: Inside, TargetID: "n", Bounds: anchor},
			wantKind: OverlayBox,
			wantRect: anchor,
		},
		{
			name:     "InsideStartBiasUsesUpperHalf",
			desc:     Descriptor{Position: Inside, TargetID: "n", Bounds: anchor, EmptyContainerHint: true},
			wantKind: OverlayBox,
			wantRect: Rect{Left: 10, Top: 20, Width: 100, Height: 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Project(tt.desc)
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Rect != tt.wantRect {
				t.Errorf("rect = %+v, want %+v", got.Rect, tt.wantRect)
			}
		})
	}
}
