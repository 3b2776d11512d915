package dto

// DepartmentNode is one node of the department tree in the shape the
// frontend cascader expects
type DepartmentNode struct {
	Value    string            `json:"value"`
	Label    string            `json:"label"`
	Children []*DepartmentNode `json:"children,omitempty"`
}
