package gputest

import (
	"fmt"
	"strings"
)

// Compile runs the toy compiler over a shader source and returns the error log, or "" if
// the source compiles. The rules are deliberately small:
//
//   - empty or whitespace-only source is an error
//   - a line with an "#error" directive is an error at that line
//   - unbalanced (), {} or [] pairs are a syntax error at the offending position
//
// Positions are reported GLSL-driver style as "0:line(column)".
func Compile(source string) string {
	if strings.TrimSpace(source) == "" {
		return "0:1(1): error: syntax error, unexpected end of file"
	}

	type open struct {
		char      byte
		line, col int
	}
	var stack []open
	closing := map[byte]byte{')': '(', '}': '{', ']': '['}

	for i, text := range strings.Split(source, "\n") {
		line := i + 1
		trimmed := strings.TrimSpace(text)
		if strings.HasPrefix(trimmed, "#error") {
			msg := strings.TrimSpace(strings.TrimPrefix(trimmed, "#error"))
			return fmt.Sprintf("0:%d(1): error: #error %s", line, msg)
		}
		if idx := strings.Index(text, "//"); idx >= 0 {
			text = text[:idx]
		}
		for j := 0; j < len(text); j++ {
			c := text[j]
			switch c {
			case '(', '{', '[':
				stack = append(stack, open{char: c, line: line, col: j + 1})
			case ')', '}', ']':
				if len(stack) == 0 || stack[len(stack)-1].char != closing[c] {
					return fmt.Sprintf("0:%d(%d): error: syntax error, unexpected '%c'", line, j+1, c)
				}
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return fmt.Sprintf("0:%d(%d): error: syntax error, unmatched '%c', unexpected end of file", top.line, top.col, top.char)
	}
	return ""
}
