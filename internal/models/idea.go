package models

// IdeaHeader is the envelope shared by every idea table.
type IdeaHeader struct {
	ID     uint   `gorm:"primaryKey" json:"id,omitempty"`
	Date   string `gorm:"type:text;not null;index" json:"date"`
	Day    string `gorm:"type:text" json:"day"`
	Pair   string `gorm:"type:text;not null" json:"pair"`
	Signal Signal `gorm:"type:text" json:"signal"`
	UserID string `gorm:"type:text;not null;index" json:"user_id"`
}

// Idea is a record carrying named chart slots. A persisted slot is either nil
// or the public URL of an uploaded image.
type Idea interface {
	Header() *IdeaHeader
	Slot(field string) *string
	SetSlot(field string, value *string) bool
}

// IdeaKind describes one idea collection.
type IdeaKind struct {
	Name   string
	Table  string
	Bucket string
	Slots  []string
}

var TraderIdeaKind = IdeaKind{
	Name:   "trader",
	Table:  "trader_ideas",
	Bucket: "trader-images",
	Slots: []string{
		"monday_image",
		"tuesday_image",
		"wednesday_image",
		"thursday_image",
		"friday_image",
		"saturday_image",
		"sunday_image",
	},
}

var MgiStrategyKind = IdeaKind{
	Name:   "mgi",
	Table:  "mgi_strategies",
	Bucket: "mgi-images",
	Slots: []string{
		"daily_chart",
		"two_hr_chart",
		"one_hr_chart",
		"fifteen_min_chart",
		"mt5_chart",
		"profit_chart",
		"pnl_chart",
	},
}

// HasSlot reports whether field is one of the kind's chart slots.
func (k IdeaKind) HasSlot(field string) bool {
	for _, s := range k.Slots {
		if s == field {
			return true
		}
	}
	return false
}

// FilledSlots returns the non-nil slot values of i, in slot order.
func FilledSlots(k IdeaKind, i Idea) []string {
	var urls []string
	for _, field := range k.Slots {
		if v := i.Slot(field); v != nil && *v != "" {
			urls = append(urls, *v)
		}
	}
	return urls
}

// TraderIdea holds one chart per weekday.
type TraderIdea struct {
	IdeaHeader
	MondayImage    *string `gorm:"column:monday_image" json:"monday_image"`
	TuesdayImage   *string `gorm:"column:tuesday_image" json:"tuesday_image"`
	WednesdayImage *string `gorm:"column:wednesday_image" json:"wednesday_image"`
	ThursdayImage  *string `gorm:"column:thursday_image" json:"thursday_image"`
	FridayImage    *string `gorm:"column:friday_image" json:"friday_image"`
	SaturdayImage  *string `gorm:"column:saturday_image" json:"saturday_image"`
	SundayImage    *string `gorm:"column:sunday_image" json:"sunday_image"`
}

func (TraderIdea) TableName() string { return TraderIdeaKind.Table }

func (i *TraderIdea) Header() *IdeaHeader { return &i.IdeaHeader }

func (i *TraderIdea) slots() map[string]**string {
	return map[string]**string{
		"monday_image":    &i.MondayImage,
		"tuesday_image":   &i.TuesdayImage,
		"wednesday_image": &i.WednesdayImage,
		"thursday_image":  &i.ThursdayImage,
		"friday_image":    &i.FridayImage,
		"saturday_image":  &i.SaturdayImage,
		"sunday_image":    &i.SundayImage,
	}
}

func (i *TraderIdea) Slot(field string) *string { return getSlot(i.slots(), field) }

func (i *TraderIdea) SetSlot(field string, value *string) bool {
	return setSlot(i.slots(), field, value)
}

// MgiStrategy holds one chart per timeframe plus the result charts.
type MgiStrategy struct {
	IdeaHeader
	DailyChart      *string `gorm:"column:daily_chart" json:"daily_chart"`
	TwoHrChart      *string `gorm:"column:two_hr_chart" json:"two_hr_chart"`
	OneHrChart      *string `gorm:"column:one_hr_chart" json:"one_hr_chart"`
	FifteenMinChart *string `gorm:"column:fifteen_min_chart" json:"fifteen_min_chart"`
	Mt5Chart        *string `gorm:"column:mt5_chart" json:"mt5_chart"`
	ProfitChart     *string `gorm:"column:profit_chart" json:"profit_chart"`
	PnlChart        *string `gorm:"column:pnl_chart" json:"pnl_chart"`
}

func (MgiStrategy) TableName() string { return MgiStrategyKind.Table }

func (m *MgiStrategy) Header() *IdeaHeader { return &m.IdeaHeader }

func (m *MgiStrategy) slots() map[string]**string {
	return map[string]**string{
		"daily_chart":       &m.DailyChart,
		"two_hr_chart":      &m.TwoHrChart,
		"one_hr_chart":      &m.OneHrChart,
		"fifteen_min_chart": &m.FifteenMinChart,
		"mt5_chart":         &m.Mt5Chart,
		"profit_chart":      &m.ProfitChart,
		"pnl_chart":         &m.PnlChart,
	}
}

func (m *MgiStrategy) Slot(field string) *string { return getSlot(m.slots(), field) }

func (m *MgiStrategy) SetSlot(field string, value *string) bool {
	return setSlot(m.slots(), field, value)
}

func getSlot(slots map[string]**string, field string) *string {
	if p, ok := slots[field]; ok {
		return *p
	}
	return nil
}

func setSlot(slots map[string]**string, field string, value *string) bool {
	p, ok := slots[field]
	if !ok {
		return false
	}
	*p = value
	return true
}

var (
	_ Idea = (*TraderIdea)(nil)
	_ Idea = (*MgiStrategy)(nil)
)
