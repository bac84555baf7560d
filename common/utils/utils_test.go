package utils

import (
	"testing"
)

func TestHexToBigInt(t *testing.T) {
	if v := HexToBigInt("de0b6b3a7640000"); v != "1000000000000000000" {
		t.Fatalf("HexToBigInt = %v", v)
	}
	if v := HexToBigInt("zz"); v != "0" {
		t.Fatalf("HexToBigInt illegal input = %v", v)
	}
}

func TestTopicToAddress(t *testing.T) {
	topic := topicAddr(testSeller)
	if addr := TopicToAddress(topic); addr != testSeller {
		t.Fatalf("TopicToAddress = %v", addr)
	}
}

func TestParseAddress(t *testing.T) {
	addr, err := ParseAddress([]byte("0X0000000000000000000000000000000000000ABC"))
	if err != nil {
		t.Fatal(err)
	}
	if addr != "0x0000000000000000000000000000000000000abc" {
		t.Fatalf("ParseAddress = %v", addr)
	}
	if _, err = ParseAddress([]byte("0x123")); err == nil {
		t.Fatal("short input accepted")
	}
	if _, err = ParseAddress([]byte("0x00000000000000000000000000000000000000zz")); err == nil {
		t.Fatal("illegal character accepted")
	}
}

func TestABIDecodeString(t *testing.T) {
	out := "0x" + wordN(32) + wordN(3) + "5453540000000000000000000000000000000000000000000000000000000000"
	s, err := ABIDecodeString(out)
	if err != nil {
		t.Fatal(err)
	}
	if s != "TST" {
		t.Fatalf("ABIDecodeString = %q", s)
	}
}

func TestABIDecodeUint64(t *testing.T) {
	v, err := ABIDecodeUint64("0x" + wordN(250))
	if err != nil {
		t.Fatal(err)
	}
	if v != 250 {
		t.Fatalf("ABIDecodeUint64 = %v", v)
	}
	if _, err = ABIDecodeUint64("0x"); err == nil {
		t.Fatal("short return accepted")
	}
}

func TestSelector(t *testing.T) {
	// 已知选择子对照
	if s := selector("supportsInterface(bytes4)"); s != "0x01ffc9a7" {
		t.Fatalf("selector = %v", s)
	}
	if s := selector("name()"); s != "0x06fdde03" {
		t.Fatalf("selector = %v", s)
	}
	if s := selector("royaltyInfo(uint256,uint256)"); s != "0x2a55205a" {
		t.Fatalf("selector = %v", s)
	}
}
