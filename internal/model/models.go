package model

import (
	"time"
)

// DocType 导出文档类型
type DocType string

const (
	DocTypeDOCX DocType = "docx"
	DocTypePPTX DocType = "pptx"
)

// Valid 判断文档类型是否受支持
func (t DocType) Valid() bool {
	return t == DocTypeDOCX || t == DocTypePPTX
}

// Feedback 章节反馈取值
const (
	FeedbackLike    = "like"
	FeedbackDislike = "dislike"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Projects     []Project `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Project struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:255;not null"`
	Topic     string    `json:"topic" gorm:"size:1000;not null"`
	DocType   DocType   `json:"doc_type" gorm:"size:10;not null"`
	OwnerID   uint      `json:"owner_id" gorm:"index;not null"`
	Sections  []Section `json:"sections,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Section struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProjectID  uint      `json:"project_id" gorm:"not null;uniqueIndex:idx_sections_project_order"`
	Title      string    `json:"title" gorm:"size:255;not null"`
	Content    string    `json:"content" gorm:"type:text"`
	OrderIndex int       `json:"order_index" gorm:"not null;uniqueIndex:idx_sections_project_order"`
	Feedback   *string   `json:"feedback" gorm:"size:20"` // like, dislike
	UserNotes  string    `json:"user_notes" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
