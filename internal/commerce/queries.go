package commerce

import (
	"context"
	"strings"
)

const shopQuery = `
query ShopInfo {
  shop {
    name
    description
  }
}`

// The reference selections cover every entity a section field can link to;
// the resolver narrows them afterwards.
const metaobjectQuery = `
query MetaobjectByHandle($handle: String!, $type: String!) {
  metaobject(handle: { handle: $handle, type: $type }) {
    id
    type
    handle
    fields {
      key
      value
      type
      reference {
        __typename
        ... on MediaImage {
          id
          image { url altText width height }
        }
      }
      references(first: 50) {
        nodes {
          __typename
          ... on Product {
            id
            title
            handle
            price { amount currencyCode }
            featuredImage { url altText width height }
          }
          ... on Metaobject {
            id
            handle
            fields { key value type }
          }
        }
      }
    }
  }
}`

// Shop fetches the storefront identity.
func (c *Client) Shop(ctx context.Context) (Shop, error) {
	var data struct {
		Shop Shop `json:"shop"`
	}
	if err := c.execute(ctx, "shop", shopQuery, nil, &data); err != nil {
		return Shop{}, err
	}
	return data.Shop, nil
}

// MetaobjectByHandle fetches one metaobject entry. A missing entry returns
// (nil, nil); only transport or API failures produce an error.
func (c *Client) MetaobjectByHandle(ctx context.Context, objectType, handle string) (*Metaobject, error) {
	objectType = strings.TrimSpace(objectType)
	handle = strings.TrimSpace(handle)

	var data struct {
		Metaobject *wireMetaobject `json:"metaobject"`
	}
	err := c.execute(ctx, "metaobject", metaobjectQuery, map[string]any{
		"handle": handle,
		"type":   objectType,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Metaobject == nil {
		return nil, nil
	}
	return data.Metaobject.toMetaobject(), nil
}

// wireMetaobject matches the raw response, where reference lists arrive inside
// a connection wrapper.
type wireMetaobject struct {
	ID     string      `json:"id"`
	Type   string      `json:"type"`
	Handle string      `json:"handle"`
	Fields []wireField `json:"fields"`
}

type wireField struct {
	Key        string     `json:"key"`
	Value      string     `json:"value"`
	Type       string     `json:"type"`
	Reference  *Reference `json:"reference"`
	References *struct {
		Nodes []Reference `json:"nodes"`
	} `json:"references"`
}

func (w *wireMetaobject) toMetaobject() *Metaobject {
	if w == nil {
		return nil
	}
	obj := &Metaobject{
		ID:     w.ID,
		Type:   w.Type,
		Handle: w.Handle,
		Fields: make([]Field, 0, len(w.Fields)),
	}
	for _, field := range w.Fields {
		converted := Field{
			Key:       field.Key,
			Value:     field.Value,
			Type:      field.Type,
			Reference: field.Reference,
		}
		if field.References != nil {
			converted.References = field.References.Nodes
		}
		obj.Fields = append(obj.Fields, converted)
	}
	return obj
}
