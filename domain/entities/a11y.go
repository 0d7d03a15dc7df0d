package entities

// A11yNode is one node of a pruned accessibility tree
type A11yNode struct {
	Role     string      `json:"role"`
	Name     *string     `json:"name"`
	Value    *string     `json:"value"`
	Children []*A11yNode `json:"children,omitempty"`
}

// PageDescription is returned by the describe page operation
type PageDescription struct {
	URL  string    `json:"url"`
	A11y *A11yNode `json:"a11y"`
}
