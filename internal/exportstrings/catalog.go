package exportstrings

// Category says where a catalog string is used.
type Category string

const (
	BundleTitle       Category = "bundle-title"
	BundleDescription Category = "bundle-description"
)

// Definition is one translatable export string. English is both the lookup
// key and the default display text.
type Definition struct {
	English  string
	Context  string
	Category Category
}

// Bundle identifies a pseudo-session document bundle.
type Bundle string

const (
	DescriptionDocuments Bundle = "DescriptionDocuments"
	OtherDocuments       Bundle = "OtherDocuments"
	ConsentDocuments     Bundle = "ConsentDocuments"
)

// Bundles lists the bundles in export order.
func Bundles() []Bundle {
	return []Bundle{DescriptionDocuments, OtherDocuments, ConsentDocuments}
}

type bundleStrings struct {
	title       Definition
	description Definition
}

var catalog = map[Bundle]bundleStrings{
	DescriptionDocuments: {
		title: Definition{
			English:  "Description Documents",
			Context:  "Title for Description Documents bundle",
			Category: BundleTitle,
		},
		description: Definition{
			English:  "This bundle contains descriptive documents about the documentation project.",
			Context:  "Description for the Description Documents bundle.",
			Category: BundleDescription,
		},
	},
	OtherDocuments: {
		title: Definition{
			English:  "Other Documents",
			Context:  "Title for the Other Documents bundle.",
			Category: BundleTitle,
		},
		description: Definition{
			English:  "This bundle contains other project documents.",
			Context:  "Description of the Other Documents bundle.",
			Category: BundleDescription,
		},
	},
	ConsentDocuments: {
		title: Definition{
			English:  "Documentation of consent for the contributors to this collection",
			Context:  "Title for the Consent Documents bundle.",
			Category: BundleTitle,
		},
		description: Definition{
			English:  "This bundle contains media demonstrating informed consent for sessions in this collection.",
			Context:  "Description for the Consent Documents bundle.",
			Category: BundleDescription,
		},
	},
}

// Title returns the English title of a bundle.
func Title(b Bundle) string { return catalog[b].title.English }

// Description returns the English description of a bundle.
func Description(b Bundle) string { return catalog[b].description.English }

// All returns every definition, bundles in export order, title before
// description.
func All() []Definition {
	out := make([]Definition, 0, 2*len(catalog))
	for _, b := range Bundles() {
		entry := catalog[b]
		out = append(out, entry.title, entry.description)
	}
	return out
}

// Lookup finds the definition whose English text is english.
func Lookup(english string) (Definition, bool) {
	for _, d := range All() {
		if d.English == english {
			return d, true
		}
	}
	return Definition{}, false
}

// Context returns the translator context for english, or "".
func Context(english string) string {
	d, _ := Lookup(english)
	return d.Context
}
