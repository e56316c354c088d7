/*
 * dat.go, part of goreport.
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

package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

//WriteDat writes the step, time (if every record has it) and the named observables
//(all of them if none is given) of S as a table that Parse can read back.
//Every record must have every requested observable.
func WriteDat(w io.Writer, S *Series, names ...string) error {
	if S.Len() == 0 {
		return newError(ErrEmptyInput, "", 0, "WriteDat", "no records to write")
	}
	if len(names) == 0 {
		names = S.Names()
	}
	_, withTime := S.Times()
	header := []string{stepField}
	if withTime {
		header = append(header, timeField)
	}
	header = append(header, names...)
	if _, err := newLayout(header); err != nil {
		return newError(ErrMalformedRecord, S.source, 0, "WriteDat", "%s", err.Error())
	}
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "#%% goreport-format %d\n", FormatVersion)
	fmt.Fprintf(b, "#! %s\n", strings.Join(header, " "))
	for _, r := range S.records {
		fmt.Fprintf(b, "%-8d", r.step)
		if withTime {
			fmt.Fprintf(b, " %14.6f", r.time)
		}
		for _, n := range names {
			v, ok := r.Value(n)
			if !ok {
				return newError(ErrUnknownObservable, S.source, r.line, "WriteDat", "step %d has no %q", r.step, n)
			}
			fmt.Fprintf(b, " %14.6f", v)
		}
		b.WriteString("\n")
	}
	return b.Flush()
}

//WriteDatFile writes the table to the file at path, compressed according to its
//extension (see Create).
func WriteDatFile(path string, S *Series, names ...string) (err error) {
	w, err := Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err = WriteDat(w, S, names...); err != nil {
		return errDecorate(err, "WriteDatFile")
	}
	return nil
}
