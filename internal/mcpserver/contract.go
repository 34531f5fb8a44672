package mcpserver

// QuoteFormatContract describes the canonical quote JSON layout that LLM
// consumers must follow when creating quotes through the MCP tools.
const QuoteFormatContract = `# Formato de cotización

Toda cotización creada a través de las herramientas MCP DEBE seguir esta
estructura JSON.

## Estructura

` + "```" + `json
{
  "cliente": {
    "nombre": "Constructora Sol SAC",      // OBLIGATORIO
    "proyecto": "Edificio Aurora",          // opcional
    "direccion": "Av. Arequipa 1234, Lima", // opcional
    "pisos": 5,                             // opcional
    "departamentos": 10                     // opcional
  },
  "items": [
    {
      "capitulo": "INSTALACIONES ELÉCTRICAS", // agrupación para el documento
      "descripcion": "Punto de tomacorriente doble", // OBLIGATORIO, no vacío
      "unidad": "pto",
      "cantidad": 20,            // número >= 0
      "precioUnitario": 45.00,   // número >= 0, en soles
      "observacion": "incluye cableado" // opcional
    }
  ],
  "condicionesComerciales": {
    "preciosIncluyenIgv": false,
    "formaPago": "50% adelanto, 50% contra entrega",
    "validez": "30 días",
    "garantia": "12 meses",
    "otros": ""
  },
  "resumen": "Resumen ejecutivo del proyecto",
  "recomendaciones": "Recomendaciones técnicas"
}
` + "```" + `

## Reglas

1. **"items" es obligatorio** y debe ser una lista no vacía.
2. **Cada item lleva "descripcion" no vacía** y "cantidad"/"precioUnitario"
   numéricos, finitos y no negativos.
3. **Los totales nunca se envían.** Subtotal, IGV (18%) y total se calculan
   siempre a partir de los items.
4. **Las partidas sin "capitulo"** se agrupan bajo "SIN CATEGORÍA".
5. **Montos en soles** con precios realistas para el mercado peruano.
6. El campo "numero" lo asigna el sistema (COT-AAAA-NNNN); no lo inventes.
`
