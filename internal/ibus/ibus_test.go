package ibus

import (
	"testing"

	"liuime/internal/engine"
)

func TestRenderAux(t *testing.T) {
	cases := []struct {
		name string
		d    engine.Display
		want string
	}{
		{
			name: "empty",
			d:    engine.Display{},
			want: "",
		},
		{
			name: "candidates only",
			d: engine.Display{
				Code:       "hj",
				Candidates: []string{"乍", "戶"},
				Pages:      1,
			},
			want: "1.乍 2.戶",
		},
		{
			name: "pending marked",
			d: engine.Display{
				Code:       "hj",
				Pending:    "戶",
				Candidates: []string{"乍", "戶"},
				Pages:      1,
			},
			want: "[戶] 1.乍 2.戶",
		},
		{
			name: "page indicator",
			d: engine.Display{
				Candidates: []string{"七"},
				Page:       1,
				Pages:      3,
			},
			want: "1.七  (2/3)",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := renderAux(tc.d); got != tc.want {
				t.Errorf("renderAux = %q, want %q", got, tc.want)
			}
		})
	}
}
