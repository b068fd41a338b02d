package bdf

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/ttf2bdf/outline"
	"github.com/npillmayer/ttf2bdf/raster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSquare(t *testing.T, code rune, ppem int) *raster.Bitmap {
	t.Helper()
	o := outline.Outline{Code: code, Contours: []outline.Contour{outline.Rect(0, 0, 1000, 1000)}}
	bm, err := raster.Rasterize(o, ppem, 1000)
	require.NoError(t, err)
	return bm
}

func testMetadata(records []Record) Metadata {
	return ComputeMetadata(records, MetadataOptions{
		Family:    "Test",
		PixelSize: 8,
		PointSize: 8,
		XDPI:      72,
		YDPI:      72,
	})
}

func TestEmitSquareGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf.bdf")
	defer teardown()
	//
	records := []Record{NewRecord('A', GlyphName('A'), fullSquare(t, 'A', 8), 8, 72)}
	text, err := Emit(records, testMetadata(records))
	require.NoError(t, err)
	t.Logf("BDF:\n%s", text)
	assert.True(t, strings.HasPrefix(text, "STARTFONT 2.1\n"))
	assert.True(t, strings.HasSuffix(text, "ENDFONT\n"))
	assert.Contains(t, text, "STARTCHAR A\nENCODING 65\n")
	assert.Contains(t, text, "BITMAP\nFF\nFF\nFF\nFF\nFF\nFF\nFF\nFF\nENDCHAR\n")
	assert.Contains(t, text, "SWIDTH 1000 0\nDWIDTH 8 0\nBBX 8 8 0 0\n")
	assert.Contains(t, text, "FONTBOUNDINGBOX 8 8 0 0\n")
	assert.NotContains(t, text, "STARTPROPERTIES")
	assert.NotContains(t, text, "\r")
}

func TestEmitHeaderOrder(t *testing.T) {
	records := []Record{NewRecord('A', "A", fullSquare(t, 'A', 8), 8, 72)}
	m := testMetadata(records)
	m.Properties = []Property{IntProperty("FONT_ASCENT", 8), StringProperty("COPYRIGHT", `say "hi"`)}
	text, err := Emit(records, m)
	require.NoError(t, err)
	lines := strings.Split(text, "\n")
	expected := []string{
		"STARTFONT 2.1",
		"FONT " + m.Name,
		"SIZE 8 72 72",
		"FONTBOUNDINGBOX 8 8 0 0",
		"STARTPROPERTIES 2",
		"FONT_ASCENT 8",
		`COPYRIGHT "say ""hi"""`,
		"ENDPROPERTIES",
		"CHARS 1",
		"STARTCHAR A",
	}
	assert.Equal(t, expected, lines[:len(expected)])
}

func TestEmitPreservesOrder(t *testing.T) {
	var records []Record
	for _, c := range []rune{'z', 'a', '0', 'M'} {
		records = append(records, NewRecord(c, GlyphName(c), fullSquare(t, c, 8), 8, 72))
	}
	text, err := Emit(records, testMetadata(records))
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(text, "STARTCHAR "))
	assert.Equal(t, 4, strings.Count(text, "ENDCHAR\n"))
	iz := strings.Index(text, "ENCODING 122")
	ia := strings.Index(text, "ENCODING 97")
	i0 := strings.Index(text, "ENCODING 48")
	im := strings.Index(text, "ENCODING 77")
	assert.True(t, iz < ia && ia < i0 && i0 < im, "expected glyphs in caller order")
}

func TestEmitEmptyFont(t *testing.T) {
	m := testMetadata(nil)
	require.Equal(t, 0, m.Count)
	text, err := Emit(nil, m)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(text, "CHARS 0\nENDFONT\n"), "got:\n%s", text)
	assert.NotContains(t, text, "STARTCHAR")
}

func TestEmitCountMismatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf.bdf")
	defer teardown()
	//
	records := []Record{NewRecord('A', "A", fullSquare(t, 'A', 8), 8, 72)}
	for _, count := range []int{0, 2, 17} {
		m := testMetadata(records)
		m.Count = count
		text, err := Emit(records, m)
		require.Error(t, err)
		assert.Empty(t, text, "expected no partial output")
		assert.True(t, errors.Is(err, ErrCountMismatch))
		var cm *CountMismatchError
		require.True(t, errors.As(err, &cm))
		assert.Equal(t, count, cm.Declared)
		assert.Equal(t, 1, cm.Actual)
		//
		var buf bytes.Buffer
		err = Write(&buf, records, m)
		assert.True(t, errors.Is(err, ErrCountMismatch))
		assert.Zero(t, buf.Len(), "expected writer to be untouched")
	}
}

func TestEmitInvalidRecords(t *testing.T) {
	bm := fullSquare(t, 'A', 8)
	tests := []struct {
		name   string
		record Record
	}{
		{"no bitmap", Record{Code: 65, Name: "A"}},
		{"empty bitmap", Record{Code: 65, Name: "A", Bitmap: &raster.Bitmap{}}},
	}
	for _, tt := range tests {
		records := []Record{{Code: 66, Name: "B", Bitmap: bm}, tt.record}
		_, err := Emit(records, testMetadata(records))
		require.Error(t, err, tt.name)
		assert.True(t, errors.Is(err, ErrInvalidRecord), tt.name)
		var re *RecordError
		require.True(t, errors.As(err, &re), tt.name)
		assert.Equal(t, 1, re.Index, tt.name)
	}
	//
	m := testMetadata(nil)
	m.Name = "Schrift-ä"
	_, err := Emit(nil, m)
	assert.True(t, errors.Is(err, ErrInvalidMetadata))
	m = testMetadata(nil)
	m.Properties = []Property{{Name: "PIXEL_SIZE", Value: "sixteen"}}
	_, err = Emit(nil, m)
	assert.True(t, errors.Is(err, ErrInvalidMetadata))
}

func TestEmitDerivesNames(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "ttf2bdf.bdf")
	defer teardown()
	//
	bm := fullSquare(t, 'A', 8)
	m := Metadata{
		PointSize: 12,
		XDPI:      75,
		YDPI:      75,
		BBox:      BoundingBox{Width: 8, Height: 8},
		Count:     1,
	}
	text, err := Emit([]Record{{Code: 65, Name: "A", Bitmap: bm}}, m)
	require.NoError(t, err)
	assert.Contains(t, text, "FONT -misc-unknown-Medium-R-Normal--8-120-75-75-P-0-ISO10646-1\n")
	assert.Contains(t, text, "SIZE 12 75 75\n")
	//
	records := []Record{
		{Code: 65, Bitmap: bm},
		{Code: 0xE9, Name: "e acute", Bitmap: bm},
		{Code: -5, Name: "Ä", Bitmap: bm},
	}
	m.Count = len(records)
	text, err = Emit(records, m)
	require.NoError(t, err)
	assert.Contains(t, text, "STARTCHAR A\nENCODING 65\n")
	assert.Contains(t, text, "STARTCHAR uni00E9\nENCODING 233\n")
	assert.Contains(t, text, "STARTCHAR unknown\nENCODING -1\n")
	font, err := Parse(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, rune(-1), font.Glyphs[2].Encoding)
}

func TestWrite(t *testing.T) {
	records := []Record{NewRecord('A', "A", fullSquare(t, 'A', 8), 8, 72)}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, records, testMetadata(records)))
	text, _ := Emit(records, testMetadata(records))
	assert.Equal(t, text, buf.String())
}

func TestScalableWidth(t *testing.T) {
	assert.Equal(t, 1000, ScalableWidth(8, 8, 72))
	assert.Equal(t, 512, ScalableWidth(8, 15, 75))
	assert.Equal(t, 0, ScalableWidth(8, 0, 75))
	assert.Equal(t, -500, ScalableWidth(-4, 8, 72))
}
