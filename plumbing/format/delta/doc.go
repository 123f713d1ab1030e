// Package delta implements the decoding half of git's binary delta format.
//
// A delta describes a target buffer as a sequence of instructions applied to
// a source buffer. It starts with a header made of two LEB128 encoded sizes,
// the expected size of the source followed by the size of the target, and
// continues with a stream of commands:
//
//	+----------+============+
//	| 0xxxxxxx |    data    |   insert: the x bits give the data length
//	+----------+============+
//
//	+----------+---------+---------+---------+---------+-------+-------+-------+
//	| 1xxxxxxx | offset1 | offset2 | offset3 | offset4 | size1 | size2 | size3 |
//	+----------+---------+---------+---------+---------+-------+-------+-------+
//	            copy: bits 0-3 select the present offset bytes and bits 4-6
//	            the present size bytes, least significant first. A size of
//	            zero stands for 0x10000.
//
// See https://github.com/git/git/blob/master/patch-delta.c and
// https://git-scm.com/docs/pack-format#_deltified_representation for details.
package delta
