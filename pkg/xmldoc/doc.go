// Package xmldoc parses bean configuration documents into a small,
// namespace-aware element tree.
//
// The tree keeps only what the bean loader needs: element names, attributes,
// children, parent links, character data and the source position of every
// element. Each element is classified into a Kind when it is parsed so the
// loader can dispatch with a single switch instead of comparing names.
//
// # Basic Usage
//
//	doc, err := xmldoc.Parse(file, "beans.xml")
//	if err != nil {
//	    return err
//	}
//	for _, child := range doc.Root.Children {
//	    if child.Kind == xmldoc.KindBean {
//	        fmt.Println(child.AttrValue("id"))
//	    }
//	}
//
// Elements outside the beans namespace (or with no namespace at all) are
// reported as KindOther and are ignored by the loader.
package xmldoc
