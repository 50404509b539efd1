package postgres

import (
	"strings"
	"testing"

	"stockwatch/internal/core"
)

func TestBuildCandidateSQL(t *testing.T) {
	tests := []struct {
		name     string
		supplier core.JoinStrategy
		sales    core.JoinStrategy
		want     []string
		notWant  []string
	}{
		{
			name:     "inner joins",
			supplier: core.InnerJoin,
			sales:    core.InnerJoin,
			want: []string{
				"JOIN supplier_products sp",
				"JOIN suppliers s",
				"JOIN recent_sales rs",
			},
			notWant: []string{"LEFT JOIN"},
		},
		{
			name:     "left supplier join",
			supplier: core.LeftJoin,
			sales:    core.InnerJoin,
			want: []string{
				"LEFT JOIN supplier_products sp",
				"LEFT JOIN suppliers s",
				"\tJOIN recent_sales rs",
			},
		},
		{
			name:     "left sales join",
			supplier: core.InnerJoin,
			sales:    core.LeftJoin,
			want:     []string{"LEFT JOIN recent_sales rs"},
			notWant:  []string{"LEFT JOIN suppliers"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql := buildCandidateSQL(core.CandidateQuery{SupplierJoin: tt.supplier, SalesJoin: tt.sales})
			for _, w := range tt.want {
				if !strings.Contains(sql, w) {
					t.Errorf("expected SQL to contain %q:\n%s", w, sql)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(sql, w) {
					t.Errorf("expected SQL not to contain %q:\n%s", w, sql)
				}
			}
			if strings.Contains(sql, "%!") {
				t.Errorf("format verbs left in SQL:\n%s", sql)
			}
		})
	}
}
