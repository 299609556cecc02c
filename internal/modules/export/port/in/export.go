package in

import (
	"context"
	"io"
)

// Usecase renders the full session history for external use. Both formats
// write the complete collection, newest session first.
type Usecase interface {
	JSON(ctx context.Context, w io.Writer) error
	CSV(ctx context.Context, w io.Writer) error
}
