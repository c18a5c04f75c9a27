package cat

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<Document doc_name="sample.txt">
  <token t_id="1" sentence="0" number="0">Jan</token>
  <token t_id="2" sentence="0" number="1">Jansen</token>
  <token t_id="3" sentence="0" number="2">is</token>
  <token t_id="4" sentence="0" number="3">rijk</token>
  <token t_id="5" sentence="0" number="4">.</token>
  <token t_id="6" sentence="1" number="5">Hij</token>
  <token t_id="7" sentence="1" number="6">slaapt</token>
  <token t_id="8" sentence="1" number="7">De</token>
  <token t_id="9" sentence="1" number="8">koopman</token>
  <Markables>
    <LABEL m_id="10"><token_anchor t_id="1"/><token_anchor t_id="2"/></LABEL>
    <LABEL m_id="11"><token_anchor t_id="6"/></LABEL>
    <LABEL m_id="12"><token_anchor t_id="8"/><token_anchor t_id="9"/></LABEL>
    <PROPERTY m_id="20"><token_anchor t_id="4"/></PROPERTY>
    <ACTIVITY m_id="30"><token_anchor t_id="7"/></ACTIVITY>
    <ENTITY m_id="40"/>
  </Markables>
  <Relations>
    <REFERS_TO r_id="100"><source m_id="10"/><target m_id="40"/></REFERS_TO>
    <REFERS_TO r_id="101"><source m_id="11"/><source m_id="12"/><target m_id="41"/></REFERS_TO>
    <REFERS_TO r_id="102"><source m_id="12"/><target m_id="40"/></REFERS_TO>
    <APPLIES_TO r_id="200"><source m_id="20"/><target m_id="10"/></APPLIES_TO>
    <HAS_ROLE r_id="300" Specific_role="agent"><source m_id="11"/><target m_id="30"/></HAS_ROLE>
    <HAS_ROLE r_id="301" Specific_role="agent"><source m_id="99"/><target m_id="30"/></HAS_ROLE>
  </Relations>
</Document>`

func TestRead(t *testing.T) {
	rows, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	// 102 shares markable 12 with 101 and markable 40 with 100, so all
	// three relations denote one referent named after the first.
	want := []GoldRow{
		{Referent: "100", Kind: KindLabel, Description: "Jan Jansen"},
		{Referent: "100", Kind: KindLabel, Description: "Hij"},
		{Referent: "100", Kind: KindLabel, Description: "De koopman"},
		{Referent: "100", Kind: KindProperty, Description: "rijk"},
		{Referent: "100", Kind: "agent", Description: "slaapt"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestRead_SeparateReferents(t *testing.T) {
	doc := `<Document>
  <token t_id="1">Piet</token>
  <token t_id="2">Klaas</token>
  <Markables>
    <LABEL m_id="1"><token_anchor t_id="1"/></LABEL>
    <LABEL m_id="2"><token_anchor t_id="2"/></LABEL>
  </Markables>
  <Relations>
    <REFERS_TO r_id="r1"><source m_id="1"/><target m_id="e1"/></REFERS_TO>
    <REFERS_TO r_id="r2"><source m_id="2"/><target m_id="e2"/></REFERS_TO>
  </Relations>
</Document>`
	rows, err := Read(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	want := []GoldRow{
		{Referent: "r1", Kind: KindLabel, Description: "Piet"},
		{Referent: "r2", Kind: KindLabel, Description: "Klaas"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
}

func TestRead_Malformed(t *testing.T) {
	if _, err := Read(strings.NewReader("<Document><token>")); err == nil {
		t.Fatal("expected error for truncated document")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	rows := []GoldRow{{Referent: "1", Kind: KindLabel, Description: "de man"}}
	if err := WriteCSV(&buf, rows); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if buf.String() != "1;label;de man\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
