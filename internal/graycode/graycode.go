// Package graycode implements the modified Gray-code tables (C3) used to map
// raw dibits/tribits onto 8-PSK/QPSK constellation indices, per §3:
// "Two static tables (MGD2 for QPSK, MGD3 for 8-PSK) and their inverses;
// self-inverse in the case of the 8-PSK table used here."
package graycode

// mgd3 is the modified Gray-code table for 8-PSK tribits. It is
// self-inverse: applying it twice is the identity, so invMgd3 is built from
// it at init rather than hand-maintained separately (which is how the
// original C++ risked the two tables drifting apart).
var mgd3 = [8]uint8{0, 1, 3, 2, 6, 7, 4, 5}
var invMgd3 [8]uint8

// mgd2 is the modified Gray-code table for QPSK dibits.
var mgd2 = [4]uint8{0, 1, 3, 2}
var invMgd2 [4]uint8

func init() {
	for x, g := range mgd3 {
		invMgd3[g] = uint8(x)
	}
	for x, g := range mgd2 {
		invMgd2[g] = uint8(x)
	}
}

// MGD3 maps a tribit (0-7) to its 8-PSK constellation index.
func MGD3(tribit uint8) uint8 { return mgd3[tribit&0x7] }

// InvMGD3 is the inverse of MGD3.
func InvMGD3(sym uint8) uint8 { return invMgd3[sym&0x7] }

// MGD2 maps a dibit (0-3) to its QPSK constellation index.
func MGD2(dibit uint8) uint8 { return mgd2[dibit&0x3] }

// InvMGD2 is the inverse of MGD2.
func InvMGD2(sym uint8) uint8 { return invMgd2[sym&0x3] }
