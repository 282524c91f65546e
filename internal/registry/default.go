package registry

// Default returns the shipped registry.
func Default() Registry {
	return New(
		Group{Component: "mod", Module: "assign", Descriptors: []Descriptor{
			{Table: "assign_submission", Alias: "asu", Field: "userid", Purpose: PurposeCheck},
			{Table: "assign_grades", Alias: "ag", Field: "userid", Purpose: PurposeCheck},
		}},
		Group{Component: "mod", Module: "chat", Descriptors: []Descriptor{
			{Table: "chat_messages", Alias: "cm", Field: "userid", Purpose: PurposeCheck},
		}},
		Group{Component: "mod", Module: "choice", Descriptors: []Descriptor{
			{Table: "choice_answers", Alias: "ca", Field: "userid", Purpose: PurposeCheck},
		}},
		Group{Component: "mod", Module: "forum", Descriptors: []Descriptor{
			{Table: "forum_posts", Alias: "fp", Field: "userid", Purpose: PurposeCheck},
			{Table: "forum_discussions", Alias: "fd", Field: "userid", Purpose: PurposeCheck},
		}},
		Group{Component: "badges", Module: Subsystem, Descriptors: []Descriptor{
			{Table: "badge_issued", Alias: "bi", Field: "userid", Purpose: PurposeCheck},
			{Table: "badge_manual_award", Alias: "bma", Field: "recipientid", Purpose: PurposeCheck},
			{Table: "badge_criteria_met", Alias: "bcm", Field: "userid", Purpose: PurposeCheck},
		}},
		Group{Component: "comment", Module: Subsystem, Descriptors: []Descriptor{
			{Table: "comments", Alias: "c", Field: "userid", Purpose: PurposeCheck},
		}},
		Group{Component: "contentbank", Module: Subsystem, Descriptors: []Descriptor{
			{Table: "contentbank_content", Alias: "cbc", Field: "usercreated", Purpose: PurposeCheck},
			{Table: "contentbank_content", Alias: "cbc2", Field: "usermodified", Purpose: PurposeCheck},
		}},
		Group{Component: "blog", Module: Subsystem, Descriptors: []Descriptor{
			{Table: "post", Alias: "p", Field: "userid", Purpose: PurposeCheck},
		}},
		Group{Component: "user", Module: Subsystem, Descriptors: []Descriptor{
			{Table: "user_preferences", Alias: "upr", Field: "userid", Purpose: PurposeArchive},
			{Table: "user_info_data", Alias: "uid", Field: "userid", Purpose: PurposeArchive},
		}},
	)
}
