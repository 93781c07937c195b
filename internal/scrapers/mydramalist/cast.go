package mydramalist

import "dramalist-backend/pkg/htmlutil"

// ExtractCast reads the cast page. Every header yields exactly one group, a header
// without a following list yields a group with no people.
func ExtractCast(doc htmlutil.Document) []CastGroup {
	groups := []CastGroup{}
	for _, header := range doc.Find(".box-body h3.header") {
		group := CastGroup{
			Category: header.Text(),
			People:   []Person{},
		}

		container, ok := header.Next()
		if ok {
			for _, li := range container.Find("li") {
				name, _ := li.First("b")
				image, _ := li.First("img")
				group.People = append(group.People, Person{
					Name:  name.Text(),
					Image: htmlutil.LazyAttr(image),
				})
			}
		}

		groups = append(groups, group)
	}
	return groups
}
