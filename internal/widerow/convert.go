package widerow

import (
	"github.com/litetable/litetable-db/pkg/proto"
	"sort"
)

// FromProto converts a LiteTable row into a Row. Only the requested family is kept and every
// qualifier contributes its newest value as a single cell named after the qualifier.
func FromProto(row *proto.Row, family string) *Row {
	result := NewRow([]byte(row.GetKey()))

	versioned, exists := row.GetCols()[family]
	if !exists {
		return result
	}

	for qualifier, qualifierValues := range versioned.GetQualifiers() {
		for _, tv := range qualifierValues.GetValues() {
			result.Put([]byte(qualifier), tv.GetValue(), tv.GetTimestampUnix())
		}
	}

	return result
}

// FromProtoData converts every row in a read response, sorted by row key.
func FromProtoData(data *proto.LitetableData, family string) []*Row {
	rows := make([]*Row, 0, len(data.GetRows()))
	for _, r := range data.GetRows() {
		rows = append(rows, FromProto(r, family))
	}

	sort.Slice(rows, func(i, j int) bool {
		return string(rows[i].Key) < string(rows[j].Key)
	})

	return rows
}
