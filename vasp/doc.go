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

//Package vasp reads the constrained molecular dynamics output of VASP: the blue moon
//block of REPORT files and the thermodynamic forces of TFILOG files. Both are returned
//as report series, one record per MD step, with observables named by CV, Lambda, ZDet,
//GkT, ZG, Grad, RC and FEG. Steps cut by the end of the file (a run still going, or
//killed) are dropped.
package vasp
