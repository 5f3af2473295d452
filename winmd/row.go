package winmd

import (
	"cmp"
	"fmt"

	"github.com/wippyai/winmd/metadata"
)

// Row locates one record of a TypeReader: the file it was loaded from, its
// table and its zero-based index. Rows carry no data and are only meaningful
// against the reader that produced them.
type Row struct {
	File  uint16
	Table metadata.TableID
	Index uint32
}

// Compare orders rows by file, table and index.
func (r Row) Compare(other Row) int {
	if c := cmp.Compare(r.File, other.File); c != 0 {
		return c
	}
	if c := cmp.Compare(r.Table, other.Table); c != 0 {
		return c
	}
	return cmp.Compare(r.Index, other.Index)
}

func (r Row) String() string {
	return fmt.Sprintf("%s[%d:%d]", r.Table, r.File, r.Index)
}
