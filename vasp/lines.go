/*
 * lines.go, part of goreport.
 *
 * Copyright 2026 the goreport authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package vasp

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

//lineReader reads trimmed lines, keeping count, and can put back the last one.
type lineReader struct {
	r      *bufio.Reader
	n      int
	last   string
	pushed bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

//next returns the next line, without surrounding spaces. The error is io.EOF at
//the end of the input.
func (L *lineReader) next() (string, error) {
	if L.pushed {
		L.pushed = false
		L.n++
		return L.last, nil
	}
	str, err := L.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && str != "") {
		return "", err
	}
	L.n++
	L.last = strings.TrimSpace(str)
	return L.last, nil
}

//unread makes next return the last line again.
func (L *lineReader) unread() {
	L.pushed = true
	L.n--
}

//line is the number of the last line returned by next.
func (L *lineReader) line() int { return L.n }
