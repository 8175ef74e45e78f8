package extract

// Candidate selector patterns per logical field, ordered newest layout first.
// Older patterns stay in the list as long as any supported page version still
// serves them; the resolver skips anything that no longer compiles or
// matches. Keep chains short enough to scan by eye when a layout changes.

var namePatterns = []string{
	"h1.top-card__name",
	".pv-text-details__left-panel h1",
	"main section:first-of-type h1",
	"h1[data-anonymize='person-name']",
	".profile-topcard__name",
	"main h1",
}

var headlinePatterns = []string{
	".top-card__headline",
	".pv-text-details__left-panel .text-body-medium",
	"div[data-anonymize='headline']",
	".profile-topcard__headline",
	"main section:first-of-type .text-body-medium",
}

var aboutPatterns = []string{
	"section.about-section div.inline-show-more-text",
	"section#about ~ div .inline-show-more-text",
	"section[data-section='summary'] .core-section-container__content",
	"#about-section p",
	"section.summary div.display-flex span[aria-hidden='true']",
}

var experienceSectionPatterns = []string{
	"section#experience-section",
	"section[data-section='experience']",
	"#experience ~ .pvs-list__outer-container",
	"section.experience-section",
}

var experienceItemPatterns = []string{
	"li.experience-item",
	"li.pvs-list__paged-list-item",
	"li.artdeco-list__item",
	"ul.experience__list > li",
}

var experienceTitlePatterns = []string{
	".experience-item__title",
	"div.display-flex span[aria-hidden='true']",
	"h3.profile-section-card__title",
	"span.t-bold",
}

var experienceCompanyPatterns = []string{
	".experience-item__subtitle",
	"span.t-14.t-normal span[aria-hidden='true']",
	"h4.profile-section-card__subtitle",
	"p.experience-item__meta-item",
}

var experienceDurationPatterns = []string{
	".experience-item__duration",
	"span.t-14.t-normal.t-black--light span[aria-hidden='true']",
	".date-range",
}

var educationSectionPatterns = []string{
	"section#education-section",
	"section[data-section='educationsDetails']",
	"#education ~ .pvs-list__outer-container",
	"section.education-section",
}

var educationItemPatterns = []string{
	"li.education__list-item",
	"li.pvs-list__paged-list-item",
	"li.artdeco-list__item",
}

var educationSchoolPatterns = []string{
	"h3.pv-entity__school-name",
	"div.display-flex span[aria-hidden='true']",
	".education__item-school",
	"span.t-bold",
}

var educationDegreePatterns = []string{
	".pv-entity__degree-name .pv-entity__comma-item",
	"span.t-14.t-normal span[aria-hidden='true']",
	".education__item-degree",
}

var educationYearsPatterns = []string{
	".pv-entity__dates span:nth-child(2)",
	"span.t-14.t-normal.t-black--light span[aria-hidden='true']",
	".education__item-dates",
}

var skillPatterns = []string{
	"section[data-section='skills'] div.display-flex span[aria-hidden='true']",
	".pv-skill-category-entity__name-text",
	"section#skills-section li .skill-name",
	"span.skill-pill",
	"ul.pv-skill-categories-section__top-skills li span.t-bold",
}

var postPatterns = []string{
	".feed-shared-update-v2 .update-components-text",
	"section.recent-activity li .feed-shared-text",
	"div[data-urn] .break-words",
	".profile-creator-shared-feed-update__description",
	"li.activity-card p.activity-card__commentary",
}

var mutualConnectionPatterns = []string{
	".top-card__connections-count",
	"span.dist-value",
	"a[href*='facetNetwork'] span",
	".member-insights__connection-count",
}
