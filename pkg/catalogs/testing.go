package catalogs

import "github.com/keekar2022/OSCAL-Reports-sub003/pkg/constants"

// NewTestCatalog returns a small catalog shaped like NIST SP 800-53 for tests.
// It flattens to AC-1, AC-2, AC-2(1), AU-2, SC-7 in that order.
func NewTestCatalog() *Catalog {
	return &Catalog{
		UUID: "74c8ba1e-5cd4-4ad1-bbfd-d888e2f6c724",
		Metadata: Metadata{
			Title:        "Test Security and Privacy Controls",
			Published:    "2024-01-01T00:00:00Z",
			LastModified: "2024-01-01T00:00:00Z",
			Version:      "5.1.1",
			OSCALVersion: "1.1.2",
			Props:        []Property{{Name: "keywords", Value: "security"}},
			Roles:        []Role{{ID: "creator", Title: "Document Creator"}},
			Parties: []Party{{
				UUID: "bbc6b2a4-2f8b-4a53-a0c0-95fbd8b4d3a6",
				Type: "organization",
				Name: "Test Standards Body",
			}},
		},
		Groups: []Group{
			{
				ID:    "ac",
				Class: "family",
				Title: "Access Control",
				Controls: []Control{
					NewTestControl("AC-1", "Policy and Procedures",
						"Develop, document, and disseminate an access control policy."),
					{
						ID:    "AC-2",
						Class: "SP800-53",
						Title: "Account Management",
						Props: []Property{{Name: constants.SortIDPropName, Value: "ac-02"}},
						Parts: []Part{{
							ID:    "ac-2_smt",
							Name:  constants.StatementPartName,
							Prose: "Manage system accounts.",
							Parts: []Part{
								{ID: "ac-2_smt.a", Name: "item", Prose: "Define allowed account types."},
								{ID: "ac-2_smt.b", Name: "item", Prose: "Assign account managers."},
							},
						}},
						Controls: []Control{
							NewTestControl("AC-2(1)", "Automated System Account Management",
								"Support the management of system accounts using automated mechanisms."),
						},
					},
				},
			},
			{
				ID:    "au",
				Class: "family",
				Title: "Audit and Accountability",
				Controls: []Control{
					NewTestControl("AU-2", "Event Logging",
						"Identify the types of events that the system is capable of logging."),
				},
			},
			{
				ID:    "sc",
				Class: "family",
				Title: "System and Communications Protection",
				Controls: []Control{
					NewTestControl("SC-7", "Boundary Protection",
						"Monitor and control communications at the external managed interfaces."),
				},
			},
		},
	}
}

// NewTestControl returns a control with one parameter and a statement part.
func NewTestControl(id, title, statement string) Control {
	return Control{
		ID:    id,
		Class: "SP800-53",
		Title: title,
		Params: []Param{{
			ID:    id + "_prm_1",
			Label: "organization-defined personnel or roles",
		}},
		Props: []Property{{Name: constants.SortIDPropName, Value: id}},
		Links: []Link{{Href: "#ref-" + id, Rel: "reference"}},
		Parts: []Part{
			{ID: id + "_smt", Name: constants.StatementPartName, Prose: statement},
			{ID: id + "_gdn", Name: constants.GuidancePartName, Prose: "Guidance for " + id + "."},
		},
	}
}
