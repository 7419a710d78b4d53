package formats

import (
	"encoding/json"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Columns are the display headers of a Row, in field order.
var Columns = []string{"ID", "Extension", "Resolution", "FPS", "Bitrate", "Codec (A/V)", "Note"}

// Bitrate is a format's bitrate as reported by the source, in kbit/s.
type Bitrate float32

// String rounds half to even, groups thousands and appends "K".
func (b Bitrate) String() string {
	rounded := int64(math.RoundToEven(float64(b)))
	return message.NewPrinter(language.English).Sprintf("%d", rounded) + "K"
}

// MarshalJSON keeps the bitrate numeric in JSON payloads.
func (b Bitrate) MarshalJSON() ([]byte, error) {
	return json.Marshal(float32(b))
}

// Row is the fixed-shape display record for one format. FPS and Bitrate are
// nullable so a single table can mix audio and video rows.
type Row struct {
	ID         string   `json:"id"`
	Extension  string   `json:"extension"`
	Resolution string   `json:"resolution"`
	FPS        *uint8   `json:"fps"`
	Bitrate    *Bitrate `json:"bitrate"`
	Codec      string   `json:"codec"`
	Note       string   `json:"note"`
}

// Cells renders the row as display strings aligned with Columns.
func (r Row) Cells() []string {
	fps := ""
	if r.FPS != nil {
		fps = strconv.Itoa(int(*r.FPS))
	}
	bitrate := ""
	if r.Bitrate != nil {
		bitrate = r.Bitrate.String()
	}
	return []string{r.ID, r.Extension, r.Resolution, fps, bitrate, r.Codec, r.Note}
}

// Project converts a normalized format into its display row.
func Project(n Normalized) Row {
	row := Row{
		ID:         n.ID,
		Extension:  n.Extension,
		Resolution: n.Resolution,
		Codec:      n.Codec.String(),
		Note:       n.Note,
	}
	bitrate := Bitrate(n.Bitrate)
	row.Bitrate = &bitrate
	if n.Kind != Audio && n.FPS != nil {
		fps := uint8(*n.FPS)
		row.FPS = &fps
	}
	if n.Kind == Audio {
		row.Resolution = ""
	}
	return row
}
