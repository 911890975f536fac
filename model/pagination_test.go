package model

import "testing"

func TestNewPagination(t *testing.T) {
	tests := []struct {
		page, limit, total int
		wantPages          int
	}{
		{2, 20, 45, 3},
		{1, 20, 0, 0},
		{1, 20, 20, 1},
		{1, 20, 21, 2},
		{1, 10, 5, 1},
	}
	for _, tt := range tests {
		p := NewPagination(tt.page, tt.limit, tt.total)
		if p.Page != tt.page || p.Limit != tt.limit || p.Total != tt.total {
			t.Errorf("NewPagination(%d, %d, %d) echoed %+v", tt.page, tt.limit, tt.total, p)
		}
		if p.Pages != tt.wantPages {
			t.Errorf("NewPagination(%d, %d, %d).Pages = %d, want %d",
				tt.page, tt.limit, tt.total, p.Pages, tt.wantPages)
		}
	}
}

func TestPaginationOffset(t *testing.T) {
	if got := NewPagination(1, 20, 100).Offset(); got != 0 {
		t.Errorf("first page offset = %d, want 0", got)
	}
	if got := NewPagination(3, 10, 100).Offset(); got != 20 {
		t.Errorf("third page offset = %d, want 20", got)
	}
}
