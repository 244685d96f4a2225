package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaic-web/mosaic/pkg/sanitizer"
)

func TestSanitizeStruct(t *testing.T) {
	t.Parallel()

	type profile struct {
		Bio string `sanitize:"html"`
	}
	type form struct {
		Name    string `sanitize:"strip"`
		Raw     string
		Profile profile
	}

	in := form{
		Name:    "<script>alert(1)</script>Alice",
		Raw:     "<b>kept</b>",
		Profile: profile{Bio: "<b>bold</b><script>x()</script>"},
	}

	require.NoError(t, sanitizer.SanitizeStruct(&in))
	require.Equal(t, "Alice", in.Name)
	require.Equal(t, "<b>kept</b>", in.Raw)
	require.Equal(t, "<b>bold</b>", in.Profile.Bio)
}

func TestSanitizeStructRejectsNonPointer(t *testing.T) {
	t.Parallel()

	type form struct{ Name string }

	require.ErrorIs(t, sanitizer.SanitizeStruct(form{}), sanitizer.ErrNotStructPointer)
	require.ErrorIs(t, sanitizer.SanitizeStruct(nil), sanitizer.ErrNotStructPointer)

	var p *form
	require.ErrorIs(t, sanitizer.SanitizeStruct(p), sanitizer.ErrNotStructPointer)
}
