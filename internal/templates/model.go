package templates

// Layout is the visual variant a template belongs to.
type Layout string

const (
	LayoutClassic   Layout = "classic"
	LayoutModern    Layout = "modern"
	LayoutMinimal   Layout = "minimal"
	LayoutExecutive Layout = "executive"
)

// Bullet is the marker drawn before responsibility items.
type Bullet string

const (
	BulletDot   Bullet = "dot"
	BulletDash  Bullet = "dash"
	BulletArrow Bullet = "arrow"
	BulletNone  Bullet = "none"
)

// Descriptor is a read-only style definition selected per resume.
type Descriptor struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Layout       Layout     `json:"layout"`
	Typography   Typography `json:"typography"`
	Spacing      Spacing    `json:"spacing"`
	Colors       Colors     `json:"colors"`
	Icons        Icons      `json:"icons"`
	ProfileImage bool       `json:"profileImage"`
}

type Typography struct {
	FontFamily  string `json:"fontFamily"`
	BaseSize    int    `json:"baseSize"`
	HeadingSize int    `json:"headingSize"`
}

type Spacing struct {
	Section    int     `json:"section"`
	LineHeight float64 `json:"lineHeight"`
}

type Colors struct {
	Primary    string `json:"primary"`
	Text       string `json:"text"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Sidebar    string `json:"sidebar,omitempty"`
}

type Icons struct {
	Sections bool   `json:"sections"`
	Bullets  Bullet `json:"bullets"`
}

// Mode selects between a read-only preview and the inline editor.
type Mode string

const (
	ModeView Mode = "view"
	ModeEdit Mode = "edit"
)

// ParseMode maps a query value to a Mode; anything but "edit" is view.
func ParseMode(raw string) Mode {
	if Mode(raw) == ModeEdit {
		return ModeEdit
	}
	return ModeView
}
