package tenantscope

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type scopedRecord struct {
	ID uint
	Scope
}

type plainRecord struct {
	ID uint
}

func TestClassifyLookup(t *testing.T) {
	tests := []struct {
		name   string
		record interface{}
		rows   int64
		tenant uint
		want   LookupOutcome
	}{
		{
			name:   "no row matched",
			record: &scopedRecord{},
			rows:   0,
			tenant: 1,
			want:   LookupNotFound,
		},
		{
			name:   "row owned by bound tenant",
			record: &scopedRecord{ID: 7, Scope: Scope{TenantID: 1}},
			rows:   1,
			tenant: 1,
			want:   LookupFound,
		},
		{
			name:   "row owned by foreign tenant",
			record: &scopedRecord{ID: 7, Scope: Scope{TenantID: 2}},
			rows:   1,
			tenant: 1,
			want:   LookupForbidden,
		},
		{
			name:   "unscoped record passes through",
			record: &plainRecord{ID: 7},
			rows:   1,
			tenant: 1,
			want:   LookupFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rv := reflect.ValueOf(tt.record).Elem()
			assert.Equal(t, tt.want, classifyLookup(rv, tt.rows, tt.tenant))
		})
	}
}
