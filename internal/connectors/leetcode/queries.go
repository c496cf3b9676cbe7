package leetcode

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Operation names sent alongside each GraphQL document.
const (
	opListTopics = "discussPostItems"
	opGetTopic   = "discussPostDetail"
)

const listTopicsQuery = `
query discussPostItems($orderBy: ArticleOrderByEnum, $keywords: [String]!, $tagSlugs: [String!], $skip: Int, $first: Int) {
  ugcArticleDiscussionArticles(
    orderBy: $orderBy
    keywords: $keywords
    tagSlugs: $tagSlugs
    skip: $skip
    first: $first
  ) {
    totalNum
    pageInfo {
      hasNextPage
    }
    edges {
      node {
        uuid
        title
        slug
        summary
        author {
          realName
          userAvatar
          userSlug
          userName
          nameColor
        }
        createdAt
        updatedAt
        topicId
        hitCount
        tags {
          name
          slug
          tagType
        }
        topic {
          id
          topLevelCommentCount
        }
      }
    }
  }
}`

const getTopicQuery = `
query discussPostDetail($topicId: ID!) {
  ugcArticleDiscussionArticle(topicId: $topicId) {
    uuid
    title
    slug
    summary
    content
    author {
      realName
      userAvatar
      userSlug
      userName
      nameColor
    }
    createdAt
    updatedAt
    topicId
    hitCount
    tags {
      name
      slug
      tagType
    }
    topic {
      id
      topLevelCommentCount
    }
  }
}`

// graphQLRequest is the POST body of every operation.
type graphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// graphQLResponse is the envelope of every response.
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type listTopicsData struct {
	Articles *struct {
		TotalNum int `json:"totalNum"`
		PageInfo struct {
			HasNextPage bool `json:"hasNextPage"`
		} `json:"pageInfo"`
		Edges []struct {
			Node article `json:"node"`
		} `json:"edges"`
	} `json:"ugcArticleDiscussionArticles"`
}

type getTopicData struct {
	Article *article `json:"ugcArticleDiscussionArticle"`
}

type article struct {
	UUID     string   `json:"uuid"`
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Summary  string   `json:"summary"`
	Content  string   `json:"content"`
	Author   *author  `json:"author"`
	Created  string   `json:"createdAt"`
	Updated  string   `json:"updatedAt"`
	TopicID  idString `json:"topicId"`
	HitCount int      `json:"hitCount"`
	Tags     []struct {
		Name    string `json:"name"`
		Slug    string `json:"slug"`
		TagType string `json:"tagType"`
	} `json:"tags"`
}

type author struct {
	RealName string `json:"realName"`
	UserSlug string `json:"userSlug"`
	UserName string `json:"userName"`
}

// idString decodes a GraphQL ID that may arrive as a string or a number.
type idString string

func (s *idString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*s = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = idString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*s = idString(strconv.FormatInt(i, 10))
		return nil
	}
	*s = idString(n.String())
	return nil
}
