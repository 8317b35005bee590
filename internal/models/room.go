package models

import "gorm.io/datatypes"

// Room is one measured room of a saved HVAC report. Position keeps the
// wizard's room order; RoomKey is the in-session room id.
type Room struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ReportID    uint           `gorm:"not null;index" json:"report_id"`
	Position    int            `gorm:"not null" json:"position"`
	RoomKey     string         `gorm:"size:36;not null" json:"room_key"`
	RoomNo      string         `gorm:"size:50;not null" json:"room_no"`
	RoomName    string         `gorm:"size:100;not null" json:"room_name"`
	SurfaceArea float64        `json:"surface_area"`
	Height      float64        `json:"height"`
	Volume      float64        `json:"volume"`
	TestMode    string         `gorm:"size:20" json:"test_mode"`
	FlowType    string         `gorm:"size:20" json:"flow_type"`
	RoomClass   string         `gorm:"size:50" json:"room_class"`
	TestData    datatypes.JSON `json:"test_data"`
}

// TableName specifies the table name for Room model
func (Room) TableName() string {
	return "hvac_rooms"
}
