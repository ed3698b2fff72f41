package console

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// SecretReader 讀取不回顯的輸入 (密碼)
type SecretReader func(r *bufio.Reader) (string, error)

// 測試時覆寫
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// TerminalSecret 在 f 為終端機時關閉回顯讀取；否則 (pipe、重導) 退回 readSecretLine
func TerminalSecret(f *os.File, out io.Writer) SecretReader {
	fd := int(f.Fd())
	return func(r *bufio.Reader) (string, error) {
		if !isTerminal(fd) {
			return readSecretLine(r)
		}
		b, err := readPassword(fd)
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// readLine 讀一行並去掉前後空白；最後一行沒有換行也照常回傳
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecretLine 只去掉行尾換行，密碼前後的空白照常保留
func readSecretLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	return readLine(s.in)
}

func (s *Session) promptSecret(label string) (string, error) {
	fmt.Fprint(s.out, label)
	return s.secret(s.in)
}
