package sheetmodels

const (
	SchemaRecord       = "record"
	SchemaSheViolation = "she_violation"
	SchemaEmployee     = "employee"
	SchemaCategory     = "category"
	SchemaSubCategory  = "subcategory"
	SchemaDepartment   = "department"
	SchemaGroup        = "group"
	SchemaOption       = "option"
)

// observation columns shared by record and record_she
var observationColumns = []Column{
	{"recordId", KindString},
	{"date", KindString},
	{"employeeId", KindString},
	{"employeeName", KindString},
	{"group", KindString},
	{"type", KindString},
	{"safetyCategoryId", KindString},
	{"subSafetyCategoryId", KindString},
	{"observedWork", KindString},
	{"departmentNotice", KindString},
	{"vehicleEquipment", KindJSON},
	{"selectedOptions", KindJSON},
	{"safeActionCount", KindInt},
	{"unsafeActionCount", KindInt},
	{"actionType", KindString},
	{"actionTypeUnsafe", KindString},
	{"other", KindString},
	{"attachment", KindJSON},
	{"status", KindString},
	{"adminNote", KindString},
	{"approvedDate", KindString},
	{"approvedBy", KindString},
}

var Record = Schema{
	Name:    SchemaRecord,
	Table:   "record",
	Columns: observationColumns,
}

var SheViolation = Schema{
	Name:  SchemaSheViolation,
	Table: "record_she",
	Columns: append(append([]Column{}, observationColumns...),
		Column{"employeeCode", KindString},
		Column{"levelOfAccident", KindString},
	),
}

var Employee = Schema{
	Name:  SchemaEmployee,
	Table: "employee",
	Columns: []Column{
		{"employeeId", KindString},
		{"fullName", KindString},
		{"department", KindString},
		{"group", KindString},
		{"position", KindString},
		{"updatedAt", KindString},
	},
}

var Category = Schema{
	Name:  SchemaCategory,
	Table: "category_data",
	Columns: []Column{
		{"id", KindInt},
		{"name", KindString},
	},
}

var SubCategory = Schema{
	Name:  SchemaSubCategory,
	Table: "sub_category_data",
	Columns: []Column{
		{"id", KindInt},
		{"category_id", KindInt},
		{"name", KindString},
		{"departcategory_id", KindJSON},
	},
}

var Option = Schema{
	Name:  SchemaOption,
	Table: "list_option",
	Columns: []Column{
		{"id", KindInt},
		{"name", KindString},
		{"sub_category_id", KindInt},
	},
}

var Department = Schema{
	Name:  SchemaDepartment,
	Table: "list_department",
	Columns: []Column{
		{"id", KindInt},
		{"name", KindString},
		{"shortname", KindString},
	},
}

var Group = Schema{
	Name:  SchemaGroup,
	Table: "list_group",
	Columns: []Column{
		{"id", KindInt},
		{"name", KindString},
	},
}

var All = []Schema{Record, SheViolation, Employee, Category, SubCategory, Option, Department, Group}

func ByName(name string) (Schema, bool) {
	for _, s := range All {
		if s.Name == name {
			return s, true
		}
	}
	return Schema{}, false
}

// ObservationSchemas are searched in this order when resolving a recordId.
var ObservationSchemas = []Schema{Record, SheViolation}
