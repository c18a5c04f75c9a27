package csvrows

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/google/go-cmp/cmp"
)

func TestWriter(t *testing.T) {
	rows := []common.Row{
		{PortraitID: "d#t2", MentionID: "t2", Relation: "label", Description: "appel", POS: common.POSNoun, TermID: "t2", DepRel: "head", ConstituentHead: "t2"},
		{PortraitID: "d#t2", MentionID: "t3", Relation: "undergoer", Description: ".", POS: common.POSPunct, TermID: "t4", DepRel: "-- / --", ConstituentHead: "t4"},
		{PortraitID: "d#t2", MentionID: "t3", Relation: "undergoer", Description: "man; vrouw", POS: common.POSNoun, TermID: "t1", DepRel: "hd/su", ConstituentHead: "t1"},
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Write(rows); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := strings.Join([]string{
		"mp_identifier;mention_id;relation;description;pos;term_id;dep_rel;constituent_head",
		"d#t2;t2;label;appel;noun;t2;head;t2",
		`d#t2;t3;undergoer;"man; vrouw";noun;t1;hd/su;t1`,
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("unexpected output (-want +got):\n%s", diff)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if diff := cmp.Diff([]common.Row{rows[0], rows[2]}, got); diff != "" {
		t.Fatalf("rows differ after reading back (-want +got):\n%s", diff)
	}
}

func TestWriter_EmptyStillWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if buf.String() != strings.Join(common.RowHeader, ";")+"\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRead_BadHeader(t *testing.T) {
	_, err := Read(strings.NewReader("a;b;c;d;e;f;g;h\n"))
	if !errors.Is(err, ErrHeader) {
		t.Fatalf("expected ErrHeader, got %v", err)
	}
}
