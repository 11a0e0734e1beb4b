package hid

// Global and local tags only the encoder needs.
const (
	tagUsageMinimum   uint8 = 0x1
	tagUsageMaximum   uint8 = 0x2
	tagLogicalMinimum uint8 = 0x1
	tagLogicalMaximum uint8 = 0x2
	tagReportSize     uint8 = 0x7
	tagReportID       uint8 = 0x8
	tagReportCount    uint8 = 0x9
)

type (
	UsagePage      struct{ Page uint16 }
	Usage          struct{ Usage uint16 }
	UsageMinimum   struct{ Min uint16 }
	UsageMaximum   struct{ Max uint16 }
	LogicalMinimum struct{ Min int32 }
	LogicalMaximum struct{ Max int32 }
	ReportID       struct{ ID uint8 }
	ReportSize     struct{ Bits uint8 }
	ReportCount    struct{ Count uint16 }
	Input          struct{ Flags MainFlags }
)

// Collection opens a collection, encodes Items and closes it again.
type Collection struct {
	Kind  CollectionKind
	Items []Item
}

func (u UsagePage) item() (ItemType, uint8, Data) {
	return ItemTypeGlobal, tagUsagePage, dataU32(uint32(u.Page))
}
func (u Usage) item() (ItemType, uint8, Data) { return ItemTypeLocal, tagUsage, dataU32(uint32(u.Usage)) }
func (u UsageMinimum) item() (ItemType, uint8, Data) {
	return ItemTypeLocal, tagUsageMinimum, dataU32(uint32(u.Min))
}
func (u UsageMaximum) item() (ItemType, uint8, Data) {
	return ItemTypeLocal, tagUsageMaximum, dataU32(uint32(u.Max))
}
func (l LogicalMinimum) item() (ItemType, uint8, Data) {
	return ItemTypeGlobal, tagLogicalMinimum, dataI32(l.Min)
}
func (l LogicalMaximum) item() (ItemType, uint8, Data) {
	return ItemTypeGlobal, tagLogicalMaximum, dataI32(l.Max)
}
func (r ReportID) item() (ItemType, uint8, Data)    { return ItemTypeGlobal, tagReportID, Data{r.ID} }
func (r ReportSize) item() (ItemType, uint8, Data)  { return ItemTypeGlobal, tagReportSize, Data{r.Bits} }
func (r ReportCount) item() (ItemType, uint8, Data) { return ItemTypeGlobal, tagReportCount, dataU32(uint32(r.Count)) }
func (i Input) item() (ItemType, uint8, Data)       { return ItemTypeMain, tagInput, Data{uint8(i.Flags)} }
func (c Collection) item() (ItemType, uint8, Data)  { return ItemTypeMain, tagCollection, Data{uint8(c.Kind)} }
