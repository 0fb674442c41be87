package paging_test

import (
	"encoding/json"
	"strconv"

	"github.com/friendsofgo/errors"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/tubepage"
)

type dbVideo struct {
	ID    int
	Title string
}

type videoDTO struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func toDTO(v dbVideo) (videoDTO, error) {
	return videoDTO{ID: strconv.Itoa(v.ID), Title: v.Title}, nil
}

func strPtr(s string) *string { return &s }

var _ = Describe("Result", func() {
	var page *paging.Page[dbVideo]

	BeforeEach(func() {
		page = &paging.Page[dbVideo]{
			Nodes: []dbVideo{{ID: 1, Title: "Intro"}, {ID: 2, Title: "Outro"}},
			PageInfo: &paging.PageInfo{
				HasNextPage: func() (bool, error) { return true, nil },
				NextCursor:  func() (*string, error) { return strPtr("next"), nil },
				TotalCount: func() (*int, error) {
					n := 42
					return &n, nil
				},
			},
		}
	})

	Describe("BuildResult", func() {
		It("should transform items and copy the next cursor", func() {
			res, err := paging.BuildResult(page, toDTO)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Items).To(Equal([]videoDTO{{ID: "1", Title: "Intro"}, {ID: "2", Title: "Outro"}}))
			Expect(*res.NextCursor).To(Equal("next"))
		})

		It("should not resolve the total count unless asked", func() {
			res, err := paging.BuildResult(page, toDTO)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.TotalCount).To(BeNil())
		})

		It("should resolve the total count on request", func() {
			res, err := paging.BuildResult(page, toDTO, paging.WithTotalCount())
			Expect(err).ToNot(HaveOccurred())
			Expect(*res.TotalCount).To(Equal(42))
		})

		It("should report the index of a failing transform", func() {
			failing := func(v dbVideo) (videoDTO, error) {
				if v.ID == 2 {
					return videoDTO{}, errors.New("boom")
				}
				return toDTO(v)
			}

			_, err := paging.BuildResult(page, failing)
			Expect(err).To(MatchError(ContainSubstring("transform item at index 1: boom")))
		})

		It("should propagate cursor and count errors", func() {
			page.PageInfo.NextCursor = func() (*string, error) { return nil, errors.New("encode") }
			_, err := paging.BuildResult(page, toDTO)
			Expect(err).To(MatchError(ContainSubstring("next cursor: encode")))

			page.PageInfo.NextCursor = nil
			page.PageInfo.TotalCount = func() (*int, error) { return nil, errors.New("timeout") }
			_, err = paging.BuildResult(page, toDTO, paging.WithTotalCount())
			Expect(err).To(MatchError(ContainSubstring("total count: timeout")))
		})

		It("should return an empty list for a nil page", func() {
			res, err := paging.BuildResult[dbVideo](nil, toDTO)
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Items).ToNot(BeNil())
			Expect(res.Items).To(BeEmpty())
			Expect(res.NextCursor).To(BeNil())
		})

		It("should leave the cursor null without PageInfo", func() {
			page.PageInfo = nil
			res, err := paging.BuildResult(page, paging.Identity[dbVideo])
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Items).To(Equal(page.Nodes))
			Expect(res.NextCursor).To(BeNil())
		})
	})

	It("should render the wire shape", func() {
		res, err := paging.BuildResult(page, toDTO)
		Expect(err).ToNot(HaveOccurred())

		Expect(res).To(WithTransform(mustJSON, MatchJSON(`{
			"items": [{"id":"1","title":"Intro"},{"id":"2","title":"Outro"}],
			"nextCursor": "next"
		}`)))

		res.NextCursor = nil
		Expect(res).To(WithTransform(mustJSON, ContainSubstring(`"nextCursor":null`)))
	})
})

var _ = Describe("PageInfo", func() {
	It("should be empty by default", func() {
		info := paging.NewEmptyPageInfo()

		total, err := info.TotalCount()
		Expect(err).ToNot(HaveOccurred())
		Expect(total).To(BeNil())

		next, err := info.NextCursor()
		Expect(err).ToNot(HaveOccurred())
		Expect(next).To(BeNil())

		hasNext, err := info.HasNextPage()
		Expect(err).ToNot(HaveOccurred())
		Expect(hasNext).To(BeFalse())
	})
})

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	Expect(err).ToNot(HaveOccurred())
	return string(b)
}
