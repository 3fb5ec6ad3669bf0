package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/bizbranches/api/internal/application"
	"github.com/bizbranches/api/internal/domain"
)

func TestBuildListFilterEmpty(t *testing.T) {
	filter := buildListFilter(application.BusinessFilter{})
	if len(filter) != 0 {
		t.Fatalf("empty filter = %v, want {}", filter)
	}
}

func TestBuildListFilterSingleClauseIsNotWrapped(t *testing.T) {
	filter := buildListFilter(application.BusinessFilter{Status: "pending"})
	if got := filter["status"]; got != "pending" {
		t.Fatalf("filter = %v, want bare status clause", filter)
	}
	if _, ok := filter["$and"]; ok {
		t.Fatalf("single clause wrapped in $and: %v", filter)
	}
}

func TestBuildListFilterCombinesClausesWithAnd(t *testing.T) {
	filter := buildListFilter(application.BusinessFilter{
		Status:   "pending",
		City:     "Lahore",
		Category: "Food",
	})
	clauses, ok := filter["$and"].([]bson.M)
	if !ok {
		t.Fatalf("filter = %v, want $and of clauses", filter)
	}
	if len(clauses) != 3 {
		t.Fatalf("clauses = %d, want 3", len(clauses))
	}
}

func TestBuildListFilterReviewed(t *testing.T) {
	reviewed := buildListFilter(application.BusinessFilter{Reviewed: application.ReviewedOnly})
	if got := reviewed["reviewedBy"]; !exists(got, true) {
		t.Errorf("reviewed filter = %v, want reviewedBy $exists true", reviewed)
	}

	unreviewed := buildListFilter(application.BusinessFilter{Reviewed: application.NotReviewed})
	if got := unreviewed["reviewedBy"]; !exists(got, false) {
		t.Errorf("not-reviewed filter = %v, want reviewedBy $exists false", unreviewed)
	}
}

func exists(clause any, want bool) bool {
	m, ok := clause.(bson.M)
	if !ok {
		return false
	}
	got, ok := m["$exists"].(bool)
	return ok && got == want
}

func TestCreatorClauseMatchesBothStoredForms(t *testing.T) {
	hex := "64b000000000000000000001"
	clause := creatorClause(hex)
	alternatives, ok := clause["$or"].(bson.A)
	if !ok || len(alternatives) != 2 {
		t.Fatalf("clause = %v, want $or of ObjectID and string", clause)
	}
	first := alternatives[0].(bson.M)["createdBy"]
	if _, isOID := first.(primitive.ObjectID); !isOID {
		t.Errorf("first alternative = %T, want ObjectID", first)
	}
	second := alternatives[1].(bson.M)["createdBy"]
	if second != hex {
		t.Errorf("second alternative = %v, want raw hex string", second)
	}
}

func TestCreatorClauseNonHexStaysString(t *testing.T) {
	clause := creatorClause("legacy-user")
	if got := clause["createdBy"]; got != "legacy-user" {
		t.Fatalf("clause = %v, want plain string match", clause)
	}
}

func TestBuildListFilterFreeTextSearchesAllFields(t *testing.T) {
	filter := buildListFilter(application.BusinessFilter{Query: "bakery"})
	alternatives, ok := filter["$or"].(bson.A)
	if !ok {
		t.Fatalf("filter = %v, want $or of regexes", filter)
	}
	if len(alternatives) != 6 {
		t.Fatalf("search spans %d fields, want 6", len(alternatives))
	}
	regex, ok := alternatives[0].(bson.M)["name"].(primitive.Regex)
	if !ok || regex.Options != "i" {
		t.Errorf("name clause = %v, want case-insensitive regex", alternatives[0])
	}
}

func TestBuildListFilterQuotesRegexMeta(t *testing.T) {
	filter := buildListFilter(application.BusinessFilter{Query: "a.b(c)"})
	alternatives := filter["$or"].(bson.A)
	regex := alternatives[0].(bson.M)["name"].(primitive.Regex)
	if regex.Pattern == "a.b(c)" {
		t.Fatalf("regex metacharacters not quoted: %q", regex.Pattern)
	}
}

func TestBuildListSort(t *testing.T) {
	def := buildListSort(false)
	if len(def) != 2 || def[0].Key != "status" || def[1].Key != "createdAt" {
		t.Errorf("default sort = %v", def)
	}
	history := buildListSort(true)
	if len(history) != 1 || history[0].Key != "createdAt" || history[0].Value != -1 {
		t.Errorf("history sort = %v", history)
	}
}

func TestBuildPublicFilterAlwaysApprovedOnly(t *testing.T) {
	filter := buildPublicFilter(application.PublicFilter{})
	if filter["status"] != "approved" {
		t.Fatalf("public filter = %v, must pin status approved", filter)
	}
}

func TestBuildPublicFilterSearchIncludesLegacyFields(t *testing.T) {
	filter := buildPublicFilter(application.PublicFilter{Search: "mart"})
	alternatives, ok := filter["$or"].(bson.A)
	if !ok || len(alternatives) != 8 {
		t.Fatalf("search spans %d fields, want 8 including legacy aliases", len(alternatives))
	}
}

func TestBuildPublicFilterAnchorsCityAndCategory(t *testing.T) {
	filter := buildPublicFilter(application.PublicFilter{City: "Lahore", Category: "Food"})
	city, ok := filter["city"].(primitive.Regex)
	if !ok || city.Pattern != "^Lahore$" || city.Options != "i" {
		t.Errorf("city clause = %v, want anchored case-insensitive match", filter["city"])
	}
	category, ok := filter["category"].(primitive.Regex)
	if !ok || category.Pattern != "^Food$" {
		t.Errorf("category clause = %v, want anchored match", filter["category"])
	}
}

func TestStatusUpdateClearsReasonUnlessRejecting(t *testing.T) {
	change := application.StatusChange{Status: domain.StatusApproved, ReviewedBy: "admin@example.com", ReviewedAt: time.Now()}
	update := statusUpdate(change)
	if _, ok := update["$unset"]; !ok {
		t.Errorf("approval must unset rejectionReason: %v", update)
	}

	rejected := application.StatusChange{Status: domain.StatusRejected, RejectionReason: "spam", ReviewedAt: time.Now()}
	update = statusUpdate(rejected)
	set := update["$set"].(bson.M)
	if set["rejectionReason"] != "spam" {
		t.Errorf("rejection lost its reason: %v", update)
	}
	if _, ok := update["$unset"]; ok {
		t.Errorf("rejection with reason must not unset it: %v", update)
	}

	bare := application.StatusChange{Status: domain.StatusRejected, ReviewedAt: time.Now()}
	update = statusUpdate(bare)
	if _, ok := update["$unset"]; !ok {
		t.Errorf("reason-less rejection must clear any prior reason: %v", update)
	}
}

func TestMapBusinessFallsBackToLegacyAliases(t *testing.T) {
	doc := BusinessDocument{
		Slug:              "mega-mart",
		BusinessName:      "Mega Mart",
		ContactPersonName: "Ayesha Khan",
		Website:           "https://megamart.pk",
		ZipCode:           "74000",
	}
	b := mapBusiness(doc)
	if b.Name != "Mega Mart" || b.ContactPerson != "Ayesha Khan" {
		t.Errorf("aliases not folded: %+v", b)
	}
	if b.WebsiteURL != "https://megamart.pk" || b.PostalCode != "74000" {
		t.Errorf("aliases not folded: %+v", b)
	}
	if b.Status != domain.StatusPending {
		t.Errorf("missing status must default to pending, got %q", b.Status)
	}
}

func TestBuildBusinessDocumentWritesBothAliasForms(t *testing.T) {
	b := &domain.Business{Name: "Mega Mart", ContactPerson: "Ayesha", WebsiteURL: "https://megamart.pk", PostalCode: "74000"}
	doc := buildBusinessDocument(b)
	if doc.Name != doc.BusinessName || doc.Name != "Mega Mart" {
		t.Errorf("name alias pair mismatch: %q / %q", doc.Name, doc.BusinessName)
	}
	if doc.PostalCode != doc.ZipCode {
		t.Errorf("postal alias pair mismatch: %q / %q", doc.PostalCode, doc.ZipCode)
	}
	if doc.WebsiteURL != doc.Website {
		t.Errorf("website alias pair mismatch: %q / %q", doc.WebsiteURL, doc.Website)
	}
}

func TestBuildBusinessDocumentCreatorForm(t *testing.T) {
	hex := "64b000000000000000000001"
	doc := buildBusinessDocument(&domain.Business{Name: "X", CreatedBy: hex})
	if _, ok := doc.CreatedBy.(primitive.ObjectID); !ok {
		t.Errorf("hex creator should be stored as ObjectID, got %T", doc.CreatedBy)
	}

	doc = buildBusinessDocument(&domain.Business{Name: "X", CreatedBy: "legacy-user"})
	if doc.CreatedBy != "legacy-user" {
		t.Errorf("non-hex creator should stay a string, got %v", doc.CreatedBy)
	}

	doc = buildBusinessDocument(&domain.Business{Name: "X"})
	if doc.CreatedBy != nil {
		t.Errorf("anonymous submission must not store a creator, got %v", doc.CreatedBy)
	}
}

func TestMapReviewResolvesEitherReferenceKey(t *testing.T) {
	oid := primitive.NewObjectID()
	doc := ReviewDocument{ID: oid, BusinessIDAlt: "64b000000000000000000002"}
	review := mapReview(doc)
	if review.ID != oid.Hex() {
		t.Errorf("review id = %q, want hex of ObjectID", review.ID)
	}
	if review.BusinessID != "64b000000000000000000002" {
		t.Errorf("businessId = %q, want legacy key fallback", review.BusinessID)
	}
	if review.Status != domain.ReviewVisible {
		t.Errorf("missing status must default to visible, got %q", review.Status)
	}
}
