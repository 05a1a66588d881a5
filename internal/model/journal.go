package model

import (
	"fmt"
	"strings"
	"time"
)

// JournalType 区分日记的书写模板
type JournalType string

const (
	JournalPositive   JournalType = "positive"
	JournalNegative   JournalType = "negative"
	JournalGratitude  JournalType = "gratitude"
	JournalFree       JournalType = "free"
	JournalReflection JournalType = "reflection"
)

// JournalTypes 列出全部可用类型
var JournalTypes = []JournalType{JournalPositive, JournalNegative, JournalGratitude, JournalFree, JournalReflection}

// JournalEditWindow 之后日记不再允许编辑
const JournalEditWindow = 24 * time.Hour

// ParseJournalType 校验日记类型
func ParseJournalType(raw string) (JournalType, error) {
	candidate := JournalType(strings.ToLower(strings.TrimSpace(raw)))
	for _, t := range JournalTypes {
		if candidate == t {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unsupported journal type %q", ErrInvalidValue, raw)
}

// JournalMeta 保存认知重构模板的附加字段
type JournalMeta struct {
	Event   string `json:"event,omitempty"`
	Thought string `json:"thought,omitempty"`
	Reframe string `json:"reframe,omitempty"`
}

// JournalEntry 是一篇日记
type JournalEntry struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId,omitempty"`
	Type      JournalType  `json:"type"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Mood      int          `json:"mood"`
	Tags      []string     `json:"tags"`
	AudioURI  string       `json:"audioUri,omitempty"`
	Meta      *JournalMeta `json:"meta,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Date      string       `json:"date"`
}

// JournalInput 定义新建日记的字段
type JournalInput struct {
	Type     JournalType  `json:"type"`
	Title    string       `json:"title"`
	Content  string       `json:"content"`
	Mood     int          `json:"mood"`
	Tags     []string     `json:"tags,omitempty"`
	AudioURI string       `json:"audioUri,omitempty"`
	Meta     *JournalMeta `json:"meta,omitempty"`
}

// Validate 校验日记类型与心情值
func (in JournalInput) Validate() error {
	if _, err := ParseJournalType(string(in.Type)); err != nil {
		return err
	}
	return ValidateAxis("mood", in.Mood)
}

// JournalPatch 描述部分更新，nil 字段保持不变
type JournalPatch struct {
	Title   *string      `json:"title,omitempty"`
	Content *string      `json:"content,omitempty"`
	Mood    *int         `json:"mood,omitempty"`
	Tags    *[]string    `json:"tags,omitempty"`
	Meta    *JournalMeta `json:"meta,omitempty"`
}

// Validate 仅在提供 mood 时校验取值
func (p JournalPatch) Validate() error {
	if p.Mood != nil {
		return ValidateAxis("mood", *p.Mood)
	}
	return nil
}

// Empty 判断补丁是否没有任何字段
func (p JournalPatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Mood == nil && p.Tags == nil && p.Meta == nil
}

// CanEdit 判断日记是否仍在可编辑窗口内
func (e JournalEntry) CanEdit(now time.Time) bool {
	return now.Sub(e.Timestamp) < JournalEditWindow
}
