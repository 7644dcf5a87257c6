/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

// Package msd reads and writes a line-oriented text format made of records
// like
//
//	#tag:param:param;
//
// one per line. Nested structs, maps and seqs each add a level of three
// spaces of indentation. The reserved bytes '#', ':', ';' and '\' are
// backslash-escaped inside tags and parameters, as is every slash in a run of
// two or more, since an unescaped "//" starts a comment that runs to the end
// of the line.
//
// Documents do not describe themselves. A Writer is fed a stream of
// events (scalars, none, unit, variants, and the beginnings and ends of
// tuples, seqs, maps and structs) and a Reader must be driven with the same
// events to read the document back. Marshal and Unmarshal derive the events
// from Go types by reflection.
package msd
