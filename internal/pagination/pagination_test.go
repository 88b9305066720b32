package pagination

import "testing"

func TestPageRequest_Defaults(t *testing.T) {
	tests := []struct {
		name         string
		in           PageRequest
		wantPage     int
		wantPageSize int
		wantOffset   int
	}{
		{"zero values", PageRequest{}, 1, DefaultPageSize, 0},
		{"explicit page", PageRequest{Page: 3, PageSize: 10}, 3, 10, 20},
		{"negative page", PageRequest{Page: -2, PageSize: 5}, 1, 5, 0},
		{"oversized page", PageRequest{Page: 2, PageSize: 1000}, 2, MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.in
			p.Defaults()
			if p.Page != tt.wantPage || p.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d", p.Page, p.PageSize, tt.wantPage, tt.wantPageSize)
			}
			if got := p.Offset(); got != tt.wantOffset {
				t.Errorf("offset: got %d, want %d", got, tt.wantOffset)
			}
		})
	}
}

func TestNewPageResponse(t *testing.T) {
	resp := NewPageResponse[string](nil, 1, 20, 0)
	if resp.Data == nil || len(resp.Data) != 0 {
		t.Errorf("expected empty non-nil data, got %v", resp.Data)
	}
	if resp.TotalPages != 0 {
		t.Errorf("expected 0 pages, got %d", resp.TotalPages)
	}

	resp = NewPageResponse([]string{"a"}, 3, 10, 21)
	if resp.TotalPages != 3 {
		t.Errorf("expected 3 pages, got %d", resp.TotalPages)
	}
	if resp.Page != 3 || resp.PageSize != 10 || resp.TotalItems != 21 {
		t.Errorf("unexpected metadata %+v", resp)
	}
}
