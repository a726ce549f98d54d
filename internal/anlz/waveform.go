package anlz

// WaveformStyle distinguishes the three on-disk waveform color encodings.
type WaveformStyle uint8

const (
	// StyleBlue is the original monochrome rendering, one height byte per
	// column.
	StyleBlue WaveformStyle = iota
	// StyleRGB packs a full color per column.
	StyleRGB
	// StyleThreeBand carries separate low, mid and high band levels.
	StyleThreeBand
)

func (s WaveformStyle) String() string {
	switch s {
	case StyleBlue:
		return "blue"
	case StyleRGB:
		return "rgb"
	case StyleThreeBand:
		return "three_band"
	}
	return "blue"
}

// WaveformData is one decoded waveform image, kept as raw column bytes.
type WaveformData struct {
	Style       WaveformStyle `json:"style"`
	BytesPerCol int           `json:"bytes_per_col"`
	ColumnCount int           `json:"column_count"`
	Data        []byte        `json:"-"`
}

// TrackWaveforms holds the three waveform slots a track can carry. Later
// sections and later files only ever fill or upgrade a slot, never replace
// a richer rendering with a poorer one.
type TrackWaveforms struct {
	Preview      *WaveformData `json:"preview,omitempty"`
	Detail       *WaveformData `json:"detail,omitempty"`
	ColorPreview *WaveformData `json:"color_preview,omitempty"`
}

// parsePlainPreview decodes the fixed-width monochrome preview sections
// (PWAV, PWV2): a u32 data length, four unknown bytes, then one byte per
// column.
func parsePlainPreview(payload []byte) *WaveformData {
	if len(payload) < 8 {
		return nil
	}
	n := int(be32(payload, 0))
	if n <= 0 {
		return nil
	}
	if n > len(payload)-8 {
		n = len(payload) - 8
	}
	return &WaveformData{
		Style:       StyleBlue,
		BytesPerCol: 1,
		ColumnCount: n,
		Data:        payload[8 : 8+n],
	}
}

// parseSizedWaveform decodes the self-describing sections (PWV3 through
// PWV5): u32 bytes per column, u32 column count, four unknown bytes, data.
func parseSizedWaveform(payload []byte, style WaveformStyle) *WaveformData {
	if len(payload) < 12 {
		return nil
	}
	bpc := int(be32(payload, 0))
	cols := int(be32(payload, 4))
	if bpc <= 0 || cols <= 0 {
		return nil
	}

	n := bpc * cols
	if n > len(payload)-12 {
		n = len(payload) - 12
		cols = n / bpc
	}
	if cols <= 0 {
		return nil
	}
	return &WaveformData{
		Style:       style,
		BytesPerCol: bpc,
		ColumnCount: cols,
		Data:        payload[12 : 12+cols*bpc],
	}
}

// parseThreeBand decodes the three-band sections (PWV6, PWV7), whose header
// is just bytes per column and column count.
func parseThreeBand(payload []byte) *WaveformData {
	if len(payload) < 8 {
		return nil
	}
	bpc := int(be32(payload, 0))
	cols := int(be32(payload, 4))
	if bpc <= 0 || cols <= 0 {
		return nil
	}

	n := bpc * cols
	if n > len(payload)-8 {
		n = len(payload) - 8
		cols = n / bpc
	}
	if cols <= 0 {
		return nil
	}
	return &WaveformData{
		Style:       StyleThreeBand,
		BytesPerCol: bpc,
		ColumnCount: cols,
		Data:        payload[8 : 8+cols*bpc],
	}
}

// setPreview fills the preview slot when it is still empty.
func (w *TrackWaveforms) setPreview(d *WaveformData) {
	if d == nil || w.Preview != nil {
		return
	}
	w.Preview = d
}

// setDetail fills the detail slot, or upgrades it from the monochrome style
// to a richer one. It never downgrades.
func (w *TrackWaveforms) setDetail(d *WaveformData) {
	if d == nil {
		return
	}
	if w.Detail == nil || (w.Detail.Style == StyleBlue && d.Style != StyleBlue) {
		w.Detail = d
	}
}

// setColorPreview fills the color preview slot, or upgrades an RGB preview
// to the three-band form.
func (w *TrackWaveforms) setColorPreview(d *WaveformData) {
	if d == nil {
		return
	}
	if w.ColorPreview == nil || (w.ColorPreview.Style == StyleRGB && d.Style == StyleThreeBand) {
		w.ColorPreview = d
	}
}

// mergeFrom applies another file's waveforms to this slot set, field by
// field, under the same fill-or-upgrade rules.
func (w *TrackWaveforms) mergeFrom(o TrackWaveforms) {
	w.setPreview(o.Preview)
	w.setDetail(o.Detail)
	w.setColorPreview(o.ColorPreview)
}
