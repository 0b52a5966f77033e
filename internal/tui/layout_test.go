package tui

import (
	"testing"

	"github.com/kartel/whygo/internal/tui/styles"
)

func TestLayoutDimensions(t *testing.T) {
	tests := []struct {
		name        string
		termWidth   int
		termHeight  int
		wantSidebar int
		wantMain    int
		wantBody    int
	}{
		{
			name:        "standard terminal uses full sidebar width",
			termWidth:   120,
			termHeight:  40,
			wantSidebar: SidebarWidth,
			wantMain:    120 - SidebarWidth - PanelGap,
			wantBody:    40 - styles.HeaderFooterReserved,
		},
		{
			name:        "narrow terminal uses minimum sidebar width",
			termWidth:   79,
			termHeight:  30,
			wantSidebar: SidebarMinWidth,
			wantMain:    79 - SidebarMinWidth - PanelGap,
			wantBody:    30 - styles.HeaderFooterReserved,
		},
		{
			name:        "exactly 80 width uses full sidebar",
			termWidth:   80,
			termHeight:  24,
			wantSidebar: SidebarWidth,
			wantMain:    80 - SidebarWidth - PanelGap,
			wantBody:    24 - styles.HeaderFooterReserved,
		},
		{
			name:        "tiny terminal keeps minimums",
			termWidth:   30,
			termHeight:  3,
			wantSidebar: SidebarMinWidth,
			wantMain:    20,
			wantBody:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SidebarWidthFor(tt.termWidth); got != tt.wantSidebar {
				t.Errorf("SidebarWidthFor(%d) = %d, want %d", tt.termWidth, got, tt.wantSidebar)
			}
			if got := MainWidthFor(tt.termWidth); got != tt.wantMain {
				t.Errorf("MainWidthFor(%d) = %d, want %d", tt.termWidth, got, tt.wantMain)
			}
			if got := BodyHeightFor(tt.termHeight); got != tt.wantBody {
				t.Errorf("BodyHeightFor(%d) = %d, want %d", tt.termHeight, got, tt.wantBody)
			}
		})
	}
}
