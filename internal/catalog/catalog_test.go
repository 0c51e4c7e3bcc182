package catalog

import (
	"path/filepath"
	"testing"

	"github.com/pkompalli/QBank-Generator/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(map[string]string{
		domain.CourseNEETPG: filepath.Join("testdata", "neet_subjects.json"),
		domain.CourseUSMLE:  filepath.Join("testdata", "usmle_subjects.json"),
	})
	require.NoError(t, err)
	return c
}

func TestCatalog_SubjectsSorted(t *testing.T) {
	c := loadTestCatalog(t)

	neet, err := c.Subjects(domain.CourseNEETPG)
	require.NoError(t, err)
	assert.Equal(t, []string{"Anatomy", "Medicine"}, neet, "subjects are sorted, not file order")

	usmle, err := c.Subjects(domain.CourseUSMLE)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pathology"}, usmle)
}

func TestCatalog_TopicsSorted(t *testing.T) {
	c := loadTestCatalog(t)

	topics, err := c.Topics(domain.CourseNEETPG, "Medicine")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cardiology", "Respiratory System"}, topics)

	topics, err = c.Topics(domain.CourseUSMLE, "Pathology")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cell Injury", "Neoplasia"}, topics, "lowercase-key files parse the same")
}

func TestCatalog_ChaptersKeepFileOrder(t *testing.T) {
	c := loadTestCatalog(t)

	chapters, err := c.Chapters(domain.CourseNEETPG, "Medicine", "Respiratory System")
	require.NoError(t, err)
	assert.Equal(t, []string{"Obstructive Lung Disease", "Pleural Disease", "Lung Cancer"}, chapters)
}

func TestCatalog_Errors(t *testing.T) {
	c := loadTestCatalog(t)

	_, err := c.Subjects("MCAT")
	domainErr, ok := domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeInvalidCourse, domainErr.Code)

	_, err = c.Topics(domain.CourseNEETPG, "Astrology")
	domainErr, ok = domain.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, domain.CodeNotFound, domainErr.Code)

	_, err = c.Chapters(domain.CourseNEETPG, "Medicine", "Nonexistent Topic")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(map[string]string{domain.CourseNEETPG: filepath.Join("testdata", "missing.json")})
	assert.Error(t, err)
}

func TestLoadExamples(t *testing.T) {
	examples, err := LoadExamples(filepath.Join("testdata", "neet_examples.json"), 3)
	require.NoError(t, err)
	require.Len(t, examples, 3, "limit truncates")
	assert.Equal(t, "Axillary nerve", examples[0].CorrectOption)
	assert.Equal(t, []string{"NEET-PG", "INICET"}, examples[1].Tags)
}

func TestLoadExamples_NoLimit(t *testing.T) {
	examples, err := LoadExamples(filepath.Join("testdata", "neet_examples.json"), 0)
	require.NoError(t, err)
	assert.Len(t, examples, 4)
}
