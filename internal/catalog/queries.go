package catalog

// GraphQL documents sent to the catalog API. Field selections match the
// decode types in types.go; anything not decoded is not requested.

const productFieldsFragment = `
fragment ProductFields on Product {
  sku
  title
  url
  brand {
    name
  }
  images(limit: 1) {
    largeProduct
  }
  reviews {
    total
    averageScore
    maxScore
  }
  cheapestVariant(currency: $currency, shippingDestination: $shippingDestination) {
    sku
    inStock
    price(currency: $currency, shippingDestination: $shippingDestination) {
      price {
        amount
        currency
        displayValue
      }
      rrp {
        amount
        currency
        displayValue
      }
    }
  }
}`

const querySearchProducts = productFieldsFragment + `
query SearchProducts($query: String!, $currency: Currency!, $shippingDestination: Country!, $offset: Int!, $limit: Int!, $sort: ProductSort!, $facets: [FacetInput!]!) {
  search(
    query: $query
    options: {
      currency: $currency
      shippingDestination: $shippingDestination
      offset: $offset
      limit: $limit
      sort: $sort
      facets: $facets
    }
  ) {
    productList {
      total
      hasMore
      products {
        ...ProductFields
      }
    }
  }
}`

const queryCollectionPage = productFieldsFragment + `
query CollectionPage($handle: PagePath!, $currency: Currency!, $shippingDestination: Country!, $offset: Int!, $limit: Int!, $sort: ProductSort!, $facets: [FacetInput!]!) {
  page(path: $handle) {
    title
    widgets {
      __typename
      ... on ProductListWidget {
        id
        title
        productList(
          input: {
            currency: $currency
            shippingDestination: $shippingDestination
            limit: $limit
            offset: $offset
            sort: $sort
            facets: $facets
          }
        ) {
          total
          hasMore
          facets {
            __typename
            ... on SimpleFacet {
              facetName
              facetHeader
              options {
                optionName
                displayName
                matchedProductCount
              }
            }
            ... on RangedFacet {
              facetName
              facetHeader
              options {
                displayName
                from
                to
                matchedProductCount
              }
            }
            ... on SliderFacet {
              facetName
              facetHeader
              minValue
              maxValue
            }
          }
          products {
            ...ProductFields
          }
        }
      }
    }
  }
}`

const queryProductDetails = `
query GetProductDetails($sku: SKU!, $currency: Currency!, $shippingDestination: Country!) {
  product(sku: $sku, strict: false) {
    sku
    title
    url
    brand {
      name
    }
    images(limit: 10) {
      largeProduct
      zoom
    }
    reviews {
      total
      averageScore
      maxScore
    }
    cheapestVariant(currency: $currency, shippingDestination: $shippingDestination) {
      sku
      inStock
      price(currency: $currency, shippingDestination: $shippingDestination) {
        price {
          amount
          currency
          displayValue
        }
        rrp {
          amount
          currency
          displayValue
        }
      }
    }
    variants {
      sku
      title
      inStock
      choices {
        optionKey
        key
        colour
        title
      }
      price(currency: $currency, shippingDestination: $shippingDestination) {
        price {
          amount
          currency
          displayValue
        }
        rrp {
          amount
          currency
          displayValue
        }
      }
    }
  }
}`

const queryHomeProducts = productFieldsFragment + `
query GetHomeProducts($currency: Currency!, $shippingDestination: Country!, $limit: Int!) {
  newProducts: search(
    query: ""
    options: {
      currency: $currency
      shippingDestination: $shippingDestination
      limit: $limit
      offset: 0
      sort: NEWEST_TO_OLDEST
      facets: []
    }
  ) {
    productList {
      products {
        ...ProductFields
      }
    }
  }
  bestSellers: search(
    query: ""
    options: {
      currency: $currency
      shippingDestination: $shippingDestination
      limit: $limit
      offset: 0
      sort: POPULARITY
      facets: []
    }
  ) {
    productList {
      products {
        ...ProductFields
      }
    }
  }
  trending: search(
    query: ""
    options: {
      currency: $currency
      shippingDestination: $shippingDestination
      limit: $limit
      offset: 0
      sort: DISCOUNT_PERCENTAGE_HIGH_TO_LOW
      facets: []
    }
  ) {
    productList {
      products {
        ...ProductFields
      }
    }
  }
}`

const queryHeaderNavigation = `
query HeaderNavigation {
  header {
    navigation {
      topLevel {
        type
        displayName
        link {
          url
          openExternally
        }
        subNavigation {
          type
          displayName
          link {
            text
            url
            openExternally
          }
          subNavigation {
            type
            displayName
            link {
              text
              url
              openExternally
            }
          }
        }
      }
    }
  }
}`
