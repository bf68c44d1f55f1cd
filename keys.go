package imagecharts

import "strings"

// Key is a query parameter understood by the chart service. Keys are
// opaque to this package: any Key, including ones not declared below,
// can be passed to [Chart.With].
type Key string

// Chart configuration keys.
const (
	ChartType      Key = "cht"      // bvg, bvs, lc, ls, p, gv, ...
	ChartData      Key = "chd"      // data series, e.g. "t:1,2,3"
	DataScaling    Key = "chds"     // automatic or custom data scaling
	QREncoding     Key = "choe"     // QR code data encoding
	QRLevel        Key = "chld"     // QR code error correction level and margin
	AxisRange      Key = "chxr"     // axis data range
	OutputFormat   Key = "chof"     // .png, .svg or .gif
	ChartSize      Key = "chs"      // <width>x<height>
	Legend         Key = "chdl"     // legend text per series
	LegendStyle    Key = "chdls"    // legend color and font size
	GridLines      Key = "chg"      // solid or dotted grid lines
	SeriesColors   Key = "chco"     // series colors
	Title          Key = "chtt"     // chart title
	TitleStyle     Key = "chts"     // chart title color and font size
	VisibleAxes    Key = "chxt"     // axes to display
	AxisLabels     Key = "chxl"     // custom axis labels
	AxisStyle      Key = "chxs"     // axis label font size and color
	Markers        Key = "chm"      // compound charts and line fills
	LineStyle      Key = "chls"     // line thickness and dash style
	Labels         Key = "chl"      // slice and bar labels
	Margins        Key = "chma"     // chart margins
	LegendPosition Key = "chdlp"    // legend position and entry order
	BackgroundFill Key = "chf"      // background fills
	Animation      Key = "chan"     // gif animation, switches output to image/gif
	InsideLabel    Key = "chli"     // doughnut chart inside label
	AccountID      Key = "icac"     // enterprise account id, triggers signing
	Signature      Key = "ichm"     // HMAC-SHA256 request signature
	FontFamily     Key = "icff"     // default font family (Google Fonts)
	FontStyle      Key = "icfs"     // default font style
	Locale         Key = "iclocale" // ISO 639-1 language
	Retina         Key = "icretina" // retina mode
	QRBackground   Key = "icqrb"    // QR code background color
	QRForeground   Key = "icqrf"    // QR code foreground color
)

type keyInfo struct {
	key  Key
	name string
	doc  string
}

// keyTable lists every declared key in the order the service documents them.
var keyTable = []keyInfo{
	{ChartType, "ChartType", "Chart type"},
	{ChartData, "ChartData", "Chart data"},
	{DataScaling, "DataScaling", "Data format with custom scaling"},
	{QREncoding, "QREncoding", "QR code data encoding"},
	{QRLevel, "QRLevel", "QR code error correction level and optional margin"},
	{AxisRange, "AxisRange", "Axis data-range"},
	{OutputFormat, "OutputFormat", "Image output format"},
	{ChartSize, "ChartSize", "Chart size (<width>x<height>)"},
	{Legend, "Legend", "Text for each series, to display in the legend"},
	{LegendStyle, "LegendStyle", "Chart legend text and style"},
	{GridLines, "GridLines", "Solid or dotted grid lines"},
	{SeriesColors, "SeriesColors", "Series colors"},
	{Title, "Title", "Chart title"},
	{TitleStyle, "TitleStyle", "Chart title colors and font size"},
	{VisibleAxes, "VisibleAxes", "Display values on your axis lines or change which axes are shown"},
	{AxisLabels, "AxisLabels", "Custom string axis labels on any axis"},
	{AxisStyle, "AxisStyle", "Font size, color for axis labels"},
	{Markers, "Markers", "Compound charts and line fills"},
	{LineStyle, "LineStyle", "Line thickness and solid/dashed style"},
	{Labels, "Labels", "Bar, pie slice, doughnut slice and polar slice chart labels"},
	{Margins, "Margins", "Chart margins"},
	{LegendPosition, "LegendPosition", "Position of the legend and order of the legend entries"},
	{BackgroundFill, "BackgroundFill", "Background fills"},
	{Animation, "Animation", "GIF animation configuration"},
	{InsideLabel, "InsideLabel", "Doughnut chart inside label"},
	{AccountID, "AccountID", "Enterprise account id"},
	{Signature, "Signature", "HMAC-SHA256 signature required to activate paid features"},
	{FontFamily, "FontFamily", "Default font family for all text from Google Fonts"},
	{FontStyle, "FontStyle", "Default font style for all text"},
	{Locale, "Locale", "Localization (ISO 639-1)"},
	{Retina, "Retina", "Retina mode"},
	{QRBackground, "QRBackground", "Background color for QR codes"},
	{QRForeground, "QRForeground", "Foreground color for QR codes"},
}

// KeyInfo describes a declared key.
type KeyInfo struct {
	Key  Key
	Name string
	Doc  string
}

// Keys returns every declared key, in documentation order.
func Keys() []KeyInfo {
	out := make([]KeyInfo, len(keyTable))
	for i, k := range keyTable {
		out[i] = KeyInfo{Key: k.key, Name: k.name, Doc: k.doc}
	}

	return out
}

// LookupKey resolves either a wire code ("chs") or a Go constant name
// ("ChartSize", case-insensitive) to its Key.
func LookupKey(name string) (Key, bool) {
	for _, k := range keyTable {
		if string(k.key) == name || strings.EqualFold(k.name, name) {
			return k.key, true
		}
	}

	return "", false
}
