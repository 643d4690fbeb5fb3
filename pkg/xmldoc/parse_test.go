package xmldoc

import (
	"errors"
	"testing"
)

const sampleDoc = `<?xml version="1.0" encoding="UTF-8"?>
<beans xmlns="http://www.springframework.org/schema/beans"
       xmlns:p="http://www.springframework.org/schema/p">
  <description>sample</description>
  <bean id="rob" class="TestBean" p:name="Rob Harrop">
    <property name="age" value="24"/>
  </bean>
  <beans>
    <bean id="nested" class="TestBean"/>
  </beans>
</beans>`

func TestParse_Tree(t *testing.T) {
	doc, err := ParseString(sampleDoc, "sample.xml")
	if err != nil {
		t.Fatalf("ParseString() error = %v, want nil", err)
	}

	if doc.Root.Kind != KindBeans {
		t.Fatalf("root kind = %v, want %v", doc.Root.Kind, KindBeans)
	}
	if doc.Resource != "sample.xml" {
		t.Errorf("doc.Resource = %q, want %q", doc.Resource, "sample.xml")
	}

	kinds := []Kind{KindOther, KindBean, KindBeans}
	if len(doc.Root.Children) != len(kinds) {
		t.Fatalf("len(root.Children) = %d, want %d", len(doc.Root.Children), len(kinds))
	}
	for i, want := range kinds {
		if got := doc.Root.Children[i].Kind; got != want {
			t.Errorf("child %d kind = %v, want %v", i, got, want)
		}
	}

	rob := doc.Root.Children[1]
	if rob.Parent != doc.Root {
		t.Error("bean parent is not the root element")
	}
	if rob.AttrValue("id") != "rob" {
		t.Errorf("id = %q, want %q", rob.AttrValue("id"), "rob")
	}
	if rob.Location.Line != 5 {
		t.Errorf("bean line = %d, want 5", rob.Location.Line)
	}
	props := 0
	for _, c := range rob.Children {
		if c.Kind == KindProperty {
			props++
		}
	}
	if props != 1 {
		t.Errorf("property children = %d, want 1", props)
	}
}

func TestParse_NamespacedAttributes(t *testing.T) {
	doc, err := ParseString(sampleDoc, "sample.xml")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	rob := doc.Root.Children[1]
	var found bool
	for _, a := range rob.Attrs {
		if a.Local == "name" {
			found = true
			if a.Space != "http://www.springframework.org/schema/p" {
				t.Errorf("p:name space = %q, want the p namespace URI", a.Space)
			}
		}
		if a.Space == "xmlns" || a.Local == "xmlns" {
			t.Errorf("namespace declaration %q leaked into attributes", a.Name())
		}
	}
	if !found {
		t.Fatal("p:name attribute not found")
	}

	if _, ok := rob.Attr("name"); ok {
		t.Error("Attr(\"name\") matched a namespaced attribute")
	}
}

func TestParse_UndeclaredPrefixKeepsPrefix(t *testing.T) {
	doc, err := ParseString(`<beans><bean id="a" p:age="3"/></beans>`, "raw.xml")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	attrs := doc.Root.Children[0].Attrs
	if len(attrs) != 2 || attrs[1].Space != "p" || attrs[1].Local != "age" {
		t.Errorf("attrs = %+v, want p:age with raw prefix", attrs)
	}
}

func TestParse_ForeignNamespaceIsOther(t *testing.T) {
	doc, err := ParseString(`<beans xmlns:x="urn:x"><x:bean id="a"/></beans>`, "foreign.xml")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if k := doc.Root.Children[0].Kind; k != KindOther {
		t.Errorf("kind = %v, want %v", k, KindOther)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unclosed", "<beans><bean id=\"a\"></beans>"},
		{"text outside root", "junk<beans/>"},
		{"second root", "<beans/><beans/>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input, "bad.xml")
			if err == nil {
				t.Fatal("ParseString() error = nil, want error")
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("error type = %T, want *SyntaxError", err)
			}
			if syntaxErr.Resource != "bad.xml" {
				t.Errorf("Resource = %q, want %q", syntaxErr.Resource, "bad.xml")
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	if KindBean.String() != "bean" {
		t.Errorf("KindBean.String() = %q, want %q", KindBean.String(), "bean")
	}
	if KindOther.String() != "other" {
		t.Errorf("KindOther.String() = %q, want %q", KindOther.String(), "other")
	}
}

func TestLocation_String(t *testing.T) {
	loc := Location{Resource: "a.xml", Line: 3, Column: 7}
	if loc.String() != "a.xml:3:7" {
		t.Errorf("String() = %q, want %q", loc.String(), "a.xml:3:7")
	}
	if (Location{}).IsValid() {
		t.Error("zero Location reported valid")
	}
}

func TestParse_ElementLocation(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantLine int
		wantCol  int
	}{
		{
			name:     "single line",
			doc:      "<beans>\n  <bean id=\"a\" class=\"A\"/>\n</beans>",
			wantLine: 2,
			wantCol:  3,
		},
		{
			name:     "start tag spanning lines",
			doc:      "<beans>\n  <bean id=\"a\"\n        class=\"A\"\n        p:x=\"1\"/>\n</beans>",
			wantLine: 2,
			wantCol:  3,
		},
		{
			name:     "after a comment and element on one line",
			doc:      "<beans><!-- c --><bean id=\"x\"/><bean\n id=\"a\"/></beans>",
			wantLine: 1,
			wantCol:  32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseString(tt.doc, "r.xml")
			if err != nil {
				t.Fatalf("ParseString() error = %v", err)
			}
			bean := doc.Root.Children[len(doc.Root.Children)-1]
			want := Location{Resource: "r.xml", Line: tt.wantLine, Column: tt.wantCol}
			if bean.Location != want {
				t.Errorf("bean location = %s, want %s", bean.Location, want)
			}
		})
	}

	doc, err := ParseString(sampleDoc, "sample.xml")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if got := doc.Root.Location; got.Line != 2 || got.Column != 1 {
		t.Errorf("root location = %s, want sample.xml:2:1", got)
	}
}
