// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はユーザーが入力したテキスト（ToDoのタスク名、
// プロフィールの趣味・職業）をサニタイズし、保存されたXSS攻撃から
// ユーザーを保護する。bluemondayのStrictPolicyを使用し、
// HTMLタグを一切許可しない。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizerService はプレーンテキストのサニタイズ機能のインターフェースを定義する。
// ユーザー入力の保存前に使用される。
type TextSanitizerService interface {
	// Sanitize は入力文字列からHTMLタグを全て除去し、前後の空白を取り除いて返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのStrictPolicyを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグも属性も一切許可せず、テキストノードのみを残す。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力文字列からHTMLタグを除去し、前後の空白を取り除いて返す。
func (s *textSanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}
