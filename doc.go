/*
 * doc.go, part of goreport.
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

/*Package report is the main package of the goReport library. It reads the per-step logs that
molecular dynamics runs write (thermodynamic integration records, constrained MD
reports), keeps them as ordered series of immutable step records, and computes the
summaries one needs before plotting: means, trapezoidal integrals, cumulative integrals.


	**goReport Capabilities**

    Reads plain, z-standard, gzip and s2 compressed report tables (see below).

    Merges series split across several files (restarted runs), renumbering steps.

    Aggregates any observable: mean, spread, trapezoidal integral over time or step.

    Writes series back as tables, which this package, and most plotting programs, can read.

    The vasp package reads the REPORT and TFILOG files of constrained (blue moon) VASP
	runs. The ti package integrates free energy gradients along a collective variable.
	The repstat package estimates errors of correlated series (blocking, autocorrelation).


******************** Format Specification, version 1 *****************************

A report is plain text, with one step per line. Blank lines are ignored.

Lines starting with "#" are comments, except for the following two:

"#% goreport-format 1" marks the format version. It is optional. A different version
is an error.

"#!" followed by whitespace-separated names declares the fields of each step line, e.g.

#! step time energy lambda

The declaration may appear only once, and before the first step line. The first
field must be "step", and holds an integer. The field "time", if present, is the
simulation time and is used as the integration variable. All the other fields are
observables. Without a declaration, "step time energy" is assumed.

Each step line holds at least as many whitespace-separated columns as fields were
declared, in the same order. Extra columns are ignored unless strict parsing is requested.
Steps must strictly increase from line to line, and time must not decrease.

***********************************************************************************/
package report
